package dto

import "github.com/buildcrew/crew-management-api/internal/models"

// ThreadDTO is a message thread enriched with project and task display
// fields. UnreadCount is relative to the reader it was built for.
type ThreadDTO struct {
	ProjectID       uint64           `json:"project_id"`
	TaskID          uint64           `json:"task_id"`
	ProjectNumber   string           `json:"project_number"`
	ColorTag        string           `json:"color_tag"`
	TaskDescription string           `json:"task_description"`
	Messages        []models.Message `json:"messages"`
	UnreadCount     int              `json:"unread_count"`
}

// ToThreadDTO builds the enriched view of a thread for a reader. Unread
// count = unread messages authored by someone other than the reader.
func ToThreadDTO(thread models.MessageThread, task models.Task, readerID string) ThreadDTO {
	unread := 0
	for _, m := range thread.Messages {
		if !m.Read && m.Sender != readerID {
			unread++
		}
	}

	return ThreadDTO{
		ProjectID:       thread.ProjectID,
		TaskID:          thread.TaskID,
		ProjectNumber:   task.Project.Number,
		ColorTag:        task.Project.ColorTag,
		TaskDescription: task.Description,
		Messages:        thread.Messages,
		UnreadCount:     unread,
	}
}
