package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"topic-memory-be/internal/dto"
	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/pkg/mailer"
	"topic-memory-be/internal/websocket"
	"topic-memory-be/pkg/events"
	pktNats "topic-memory-be/pkg/nats"
	"topic-memory-be/pkg/topic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IDispatcherService interface {
	Consume(ctx context.Context) error
}

// dispatcherService drains the action bus and fans each batch out to the
// delivery channels: structured log, live websocket push, NATS for
// external consumers, and email for escalations. Every channel is
// best-effort; a failed delivery never blocks the others.
type dispatcherService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	hub             *websocket.Hub
	natsPublisher   *pktNats.Publisher
	emailService    mailer.IEmailService
	escalationEmail string
	logger          logger.ILogger
}

func NewDispatcherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	natsPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	escalationEmail string,
	log logger.ILogger,
) IDispatcherService {
	return &dispatcherService{
		pubSub:          pubSub,
		topicName:       topicName,
		hub:             hub,
		natsPublisher:   natsPublisher,
		emailService:    emailService,
		escalationEmail: escalationEmail,
		logger:          log,
	}
}

func (s *dispatcherService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *dispatcherService) processMessage(ctx context.Context, msg *message.Message) {
	var batch dto.ActionBatchMessage
	if err := json.Unmarshal(msg.Payload, &batch); err != nil {
		s.logger.Error("Dispatcher", "Failed to unmarshal action batch", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads are never retriable
		return
	}

	for _, action := range batch.Actions {
		s.deliver(ctx, &batch, &action)
	}
	msg.Ack()
}

func (s *dispatcherService) deliver(ctx context.Context, batch *dto.ActionBatchMessage, action *topic.NotificationAction) {
	s.logger.Info("Dispatcher", "Action generated", map[string]interface{}{
		"topic_id":    batch.TopicId,
		"action_type": action.ActionType,
		"target_user": action.TargetUser,
		"severity":    action.Severity,
		"message":     action.Message,
	})

	if s.hub != nil {
		payload, err := json.Marshal(action)
		if err == nil {
			if action.TargetUser == "" || action.TargetUser == topic.TargetAll {
				s.hub.Broadcast(payload)
			} else {
				s.hub.Send(action.TargetUser, payload)
			}
		}
	}

	if s.natsPublisher != nil {
		evt := events.BaseEvent{
			Type: strings.ToUpper(action.ActionType),
			Data: map[string]interface{}{
				"topic_id":    batch.TopicId,
				"topic_title": batch.TopicTitle,
				"target_user": action.TargetUser,
				"message":     action.Message,
				"severity":    action.Severity,
				"tags":        action.Tags,
			},
			OccurredAt: time.Now(),
		}
		if err := s.natsPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Dispatcher", "NATS publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	escalate := action.ActionType == topic.ActionEscalate || action.Severity == topic.SeverityCritical
	if escalate && s.emailService != nil && s.escalationEmail != "" {
		if err := s.emailService.SendActionAlert(s.escalationEmail, batch.TopicTitle, action.Severity, action.Message); err != nil {
			s.logger.Warn("Dispatcher", "Escalation email failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
