package immich

import "time"

type sharedLinkDTO struct {
	Album *albumRefDTO `json:"album"`
}

type albumRefDTO struct {
	ID string `json:"id"`
}

type albumDTO struct {
	Assets []assetDTO `json:"assets"`
}

type assetDTO struct {
	ID               string    `json:"id"`
	OriginalFileName string    `json:"originalFileName"`
	LocalDateTime    time.Time `json:"localDateTime"`
	ExifInfo         exifDTO   `json:"exifInfo"`
}

type exifDTO struct {
	DateTimeOriginal *time.Time `json:"dateTimeOriginal"`
	City             string     `json:"city"`
	Country          string     `json:"country"`
}
