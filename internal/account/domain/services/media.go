package services

import "io"

// Логические каталоги хранилища медиа.
const (
	FolderAvatars = "AVATARS"
	FolderResumes = "MY_RESUME"
)

// MediaFile - загружаемый файл.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}
