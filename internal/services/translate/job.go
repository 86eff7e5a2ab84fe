package translate

import (
	"context"
	"fmt"

	"FxDesk/pkg/queue"
)

// MessageType identifies headline translation work on the queue.
const MessageType = "news.translate"

// HeadlinePayload is the queued unit of translation work.
type HeadlinePayload struct {
	Text string `json:"text"`
}

// HeadlineJob warms the translation cache from queued headlines so the
// next feed refresh serves translated titles without blocking.
type HeadlineJob struct {
	svc *Service
}

func NewHeadlineJob(svc *Service) *HeadlineJob {
	return &HeadlineJob{svc: svc}
}

func (j *HeadlineJob) Name() string { return "translate-headline" }

func (j *HeadlineJob) Type() string { return MessageType }

func (j *HeadlineJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[HeadlinePayload](payload)
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if _, err := j.svc.Translate(ctx, p.Text); err != nil {
		return fmt.Errorf("translate headline: %w", err)
	}
	return nil
}
