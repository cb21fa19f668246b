package models

import "time"

// ClubDocument is the metadata of a file shared with a club. The file itself
// lives at FileURL.
type ClubDocument struct {
	ID          string    `json:"id" firestore:"id"`
	ClubID      string    `json:"clubId" firestore:"clubId"`
	Name        string    `json:"name" firestore:"name" validate:"required,max=200"`
	Description *string   `json:"description,omitempty" firestore:"description,omitempty"`
	FileURL     string    `json:"fileURL" firestore:"fileURL" validate:"required,url"`
	FileType    string    `json:"fileType" firestore:"fileType" validate:"required,max=100"`
	FileSize    int64     `json:"fileSize" firestore:"fileSize" validate:"gte=0"`
	UploadedBy  string    `json:"uploadedBy" firestore:"uploadedBy" validate:"required"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	IsPublic    bool      `json:"isPublic" firestore:"isPublic"`
}
