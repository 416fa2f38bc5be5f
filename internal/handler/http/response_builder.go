package http

import (
	"github.com/MKhiriev/golden-glimpses/internal/media"
	"github.com/MKhiriev/golden-glimpses/internal/visibility"
	"github.com/MKhiriev/golden-glimpses/models"
)

// capsuleResponse renders a capsule view. Hidden contents are replaced by
// empty media lists and the placeholder cover.
func capsuleResponse(view models.CapsuleView) models.CapsuleResponse {
	c := view.Capsule
	e := view.Evaluation

	items := []models.MediaItem{}
	cover := media.PlaceholderCoverURL
	if e.IsContentVisible {
		if len(c.Media) > 0 {
			items = c.Media
		}
		cover = media.CoverURL(c)
	}

	return models.CapsuleResponse{
		ID:                 c.ID,
		OwnerID:            c.OwnerID,
		Title:              c.Title,
		Description:        c.Description,
		UnsealingDate:      c.UnsealingDate,
		UnlockDate:         c.UnsealingDate,
		IsPublic:           c.IsPublic,
		Status:             c.Status,
		Media:              items,
		Memories:           items,
		MediaCount:         len(c.Media),
		CoverURL:           cover,
		IsContentVisible:   e.IsContentVisible,
		TimeRemaining:      visibility.RemainingSeconds(e),
		TimeRemainingLabel: visibility.Label(e),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func capsuleResponses(views []models.CapsuleView) []models.CapsuleResponse {
	out := make([]models.CapsuleResponse, 0, len(views))
	for _, v := range views {
		out = append(out, capsuleResponse(v))
	}
	return out
}

func countdownMessage(view models.CapsuleView) models.CountdownMessage {
	return models.CountdownMessage{
		CapsuleID:          view.Capsule.ID,
		IsContentVisible:   view.Evaluation.IsContentVisible,
		TimeRemaining:      visibility.RemainingSeconds(view.Evaluation),
		TimeRemainingLabel: visibility.Label(view.Evaluation),
	}
}
