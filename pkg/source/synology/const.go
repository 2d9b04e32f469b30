package synology

import "regexp"

const (
	// ProviderName is the backend name.
	ProviderName = "Synology Photos"

	apiLogin     = "SYNO.Core.Sharing.Login"
	apiAlbum     = "SYNO.Foto.Browse.Album"
	apiItem      = "SYNO.Foto.Browse.Item"
	apiThumbnail = "SYNO.Foto.Thumbnail"

	sharingHeader = "X-SYNO-SHARING"

	// MaxLimit is the largest page the list API accepts.
	MaxLimit = 5000
)

// shareLinkRegex splits a share link into the sharing base and the sharing id.
var shareLinkRegex = regexp.MustCompile(`^(https?://.+)/([^/]+)/?$`)
