package dto

// DownloadRequest is the body of the legacy synchronous download endpoint.
type DownloadRequest struct {
	URL string `json:"url" binding:"required,url"`
}
