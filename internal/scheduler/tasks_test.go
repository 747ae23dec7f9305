package scheduler

import (
	"testing"

	"github.com/hibiken/asynq"
)

func TestSponsorshipExpireTaskRoundTrip(t *testing.T) {
	task, err := NewSponsorshipExpireTask(SponsorshipExpirePayload{
		SponsorshipID: "6f1c2d3e-0000-0000-0000-000000000001",
		PlaceID:       "place-1",
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskSponsorshipExpire {
		t.Fatalf("type = %s", task.Type())
	}

	payload, err := ParseSponsorshipExpirePayload(task)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if payload.SponsorshipID != "6f1c2d3e-0000-0000-0000-000000000001" || payload.PlaceID != "place-1" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestParseSponsorshipExpirePayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskSponsorshipExpire, []byte("{not json"))
	if _, err := ParseSponsorshipExpirePayload(task); err == nil {
		t.Fatal("expected parse error")
	}
}
