package service

import (
	"encoding/json"
	"fmt"

	"ai-docchat-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService hands background jobs to the in-process bus. The
// HTTP handlers fire and forget; the consumer service does the work.
type IPublisherService interface {
	PublishProcessDocument(msg *dto.ProcessDocumentMessage) error
	PublishGenerateAnswer(msg *dto.GenerateAnswerMessage) error
}

type publisherService struct {
	pubSub        *gochannel.GoChannel
	documentTopic string
	answerTopic   string
}

func NewPublisherService(pubSub *gochannel.GoChannel, documentTopic, answerTopic string) IPublisherService {
	return &publisherService{
		pubSub:        pubSub,
		documentTopic: documentTopic,
		answerTopic:   answerTopic,
	}
}

func (ps *publisherService) PublishProcessDocument(msg *dto.ProcessDocumentMessage) error {
	return ps.publish(ps.documentTopic, msg)
}

func (ps *publisherService) PublishGenerateAnswer(msg *dto.GenerateAnswerMessage) error {
	return ps.publish(ps.answerTopic, msg)
}

func (ps *publisherService) publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}
	return ps.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), data))
}
