package retouch

import "fmt"

// Option identifies one retouch operation a client can order per image.
type Option string

const (
	OptionSkinSmoothing     Option = "skin_smoothing"
	OptionColorGrading      Option = "color_grading"
	OptionBackgroundCleanup Option = "background_cleanup"
	OptionTeethWhitening    Option = "teeth_whitening"
	OptionBodyShaping       Option = "body_shaping"

	errInvalidOptionFmt = "invalid retouch option: %s"
)

// Catalog lists every orderable option in display order.
func Catalog() []Option {
	return []Option{
		OptionSkinSmoothing,
		OptionColorGrading,
		OptionBackgroundCleanup,
		OptionTeethWhitening,
		OptionBodyShaping,
	}
}

// Validate validates the option against the catalog.
func (o Option) Validate() error {
	switch o {
	case OptionSkinSmoothing, OptionColorGrading, OptionBackgroundCleanup,
		OptionTeethWhitening, OptionBodyShaping:
		return nil
	default:
		return fmt.Errorf(errInvalidOptionFmt, o)
	}
}

// ValidateAll validates a full option list, rejecting duplicates.
func ValidateAll(options []string) error {
	seen := make(map[string]struct{}, len(options))
	for _, raw := range options {
		if err := Option(raw).Validate(); err != nil {
			return err
		}
		if _, dup := seen[raw]; dup {
			return fmt.Errorf("duplicate retouch option: %s", raw)
		}
		seen[raw] = struct{}{}
	}
	return nil
}
