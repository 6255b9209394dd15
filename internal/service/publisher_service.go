package service

import (
	"context"
	"encoding/json"

	"topic-memory-be/internal/dto"
	"topic-memory-be/pkg/topic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishActions(ctx context.Context, state *topic.State, actions []topic.NotificationAction) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (s *publisherService) PublishActions(ctx context.Context, state *topic.State, actions []topic.NotificationAction) error {
	payload := dto.ActionBatchMessage{
		TopicId:    state.TopicID,
		TopicTitle: state.Title,
		Actions:    actions,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return s.pubSub.Publish(s.topicName, msg)
}
