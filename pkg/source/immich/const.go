package immich

import "regexp"

const (
	// ProviderName is the backend name.
	ProviderName = "Immich"

	sizePreview = "preview"
)

// shareLinkRegex splits a share link into the server base and the share key.
var shareLinkRegex = regexp.MustCompile(`^(https?://.+)/share/([^/]+)/?$`)
