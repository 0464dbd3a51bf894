package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExportPending   = "pending"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

type ExportJob struct {
	ID        uuid.UUID `json:"id"`
	Format    string    `json:"format"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewExportJob(format, title string) *ExportJob {
	now := time.Now().UTC()
	return &ExportJob{
		ID:        uuid.New(),
		Format:    format,
		Title:     title,
		Status:    ExportPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (j *ExportJob) Complete(filename string, size int) {
	j.Filename = filename
	j.Size = size
	j.Status = ExportCompleted
	j.UpdatedAt = time.Now().UTC()
}

func (j *ExportJob) Fail(err error) {
	j.Status = ExportFailed
	if err != nil {
		j.Error = err.Error()
	}
	j.UpdatedAt = time.Now().UTC()
}
