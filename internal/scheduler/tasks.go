// Package scheduler runs delayed tasks over asynq: currently only
// sponsorship expiry.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskSponsorshipExpire = "sponsorship.expire"

type SponsorshipExpirePayload struct {
	SponsorshipID string `json:"sponsorshipId"`
	PlaceID       string `json:"placeId"`
}

func NewSponsorshipExpireTask(payload SponsorshipExpirePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSponsorshipExpire, data), nil
}

func ParseSponsorshipExpirePayload(task *asynq.Task) (SponsorshipExpirePayload, error) {
	var payload SponsorshipExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SponsorshipExpirePayload{}, err
	}
	return payload, nil
}
