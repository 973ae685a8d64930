package catalog

// searchResponse is the top-level search payload
type searchResponse struct {
	Data []wallpaperDTO `json:"data"`
	Meta metaDTO        `json:"meta"`
}

// wallpaperDTO is one catalog record as returned by the API
type wallpaperDTO struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Resolution string `json:"resolution"`
	Path       string `json:"path"` // Direct URL to the full-size image
	FileSize   int64  `json:"file_size"`
	FileType   string `json:"file_type"`
	Category   string `json:"category"`
	Purity     string `json:"purity"`
}

// metaDTO carries pagination metadata
type metaDTO struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// errorResponse is the remote-reported error payload
type errorResponse struct {
	Error string `json:"error"`
}
