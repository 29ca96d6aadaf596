package handler

const (
	paramProjectID = "project_id"
	paramAssetID   = "asset_id"
	paramID        = "id"

	queryView = "view"

	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidProjectID        = "invalid project id"
	msgInvalidPackageTier      = "invalid package tier"
	msgEmptySelection          = "cannot submit an empty selection"
	msgGalleryNotEditable      = "gallery is not editable"
	msgDownloadsNotReady       = "final images are not ready for download"
	msgInvalidCredentials      = "invalid email or password"
	msgGenerateTokenFail       = "failed to generate token"
	msgCreateProjectFail       = "failed to create project"
	msgListProjectsFail        = "failed to list projects"
	msgPrepareUploadsFail      = "failed to prepare upload URLs"
	msgAppendAssetsFail        = "failed to append assets"
	msgDeliverFinalsFail       = "failed to deliver final assets"
	msgDownloadURLsFail        = "failed to generate download URLs"
)
