package service

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"rehab/internal/modules/chat/domain"
	chatout "rehab/internal/modules/chat/port/out"
	apperrors "rehab/internal/platform/errors"
	"rehab/internal/platform/logging"
)

// ChatService holds one conversation. The transcript only grows when the
// assistant answered.
type ChatService struct {
	mu         sync.Mutex
	transcript []domain.Message

	assistant chatout.Assistant
	source    chatout.ContextSource
	language  chatout.LanguageSource
	logger    hclog.Logger
}

func NewChatService(assistant chatout.Assistant, source chatout.ContextSource, language chatout.LanguageSource, logger hclog.Logger) *ChatService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ChatService{assistant: assistant, source: source, language: language, logger: logger}
}

func (s *ChatService) lang() string {
	if s.language == nil {
		return "en"
	}
	return s.language.Language()
}

func (s *ChatService) current() (domain.AssessmentContext, bool) {
	if s.source == nil {
		return domain.AssessmentContext{}, false
	}
	return s.source.Current()
}

func (s *ChatService) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.transcript...)
}

func (s *ChatService) Reset() {
	s.mu.Lock()
	s.transcript = nil
	s.mu.Unlock()
}

func (s *ChatService) withUser(text string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(append([]domain.Message(nil), s.transcript...), domain.Message{Role: domain.RoleUser, Content: text})
}

func (s *ChatService) record(msgs ...domain.Message) {
	s.mu.Lock()
	s.transcript = append(s.transcript, msgs...)
	s.mu.Unlock()
}

// Send posts the conversation plus text to the patient chat endpoint with the
// current assessment as context.
func (s *ChatService) Send(ctx context.Context, text string) (domain.Reply, error) {
	text, err := domain.ValidateText(text)
	if err != nil {
		return domain.Reply{}, err
	}
	var patient map[string]any
	if c, ok := s.current(); ok {
		patient = c.Payload()
	}
	reply, err := s.assistant.PatientChat(ctx, s.withUser(text), patient, s.lang())
	if err != nil {
		s.logger.Warn("chat request failed", "error", err)
		return domain.Reply{}, err
	}
	s.record(domain.Message{Role: domain.RoleUser, Content: text}, domain.Message{Role: domain.RoleAssistant, Content: reply.Text})
	return reply, nil
}

// Complete is Send against the general completion endpoint.
func (s *ChatService) Complete(ctx context.Context, text string) (domain.Reply, error) {
	text, err := domain.ValidateText(text)
	if err != nil {
		return domain.Reply{}, err
	}
	var extra map[string]any
	if c, ok := s.current(); ok {
		extra = c.Payload()
	}
	reply, err := s.assistant.Complete(ctx, s.withUser(text), s.lang(), extra)
	if err != nil {
		s.logger.Warn("completion request failed", "error", err)
		return domain.Reply{}, err
	}
	s.record(domain.Message{Role: domain.RoleUser, Content: text}, domain.Message{Role: domain.RoleAssistant, Content: reply.Text})
	return reply, nil
}

func (s *ChatService) requireContext() (domain.AssessmentContext, error) {
	c, ok := s.current()
	if !ok {
		return domain.AssessmentContext{}, fmt.Errorf("%w: complete an assessment first", apperrors.ErrInvalidInput)
	}
	return c, nil
}

// Advice asks for advice on the current assessment and adds it to the
// conversation.
func (s *ChatService) Advice(ctx context.Context) (domain.Reply, error) {
	c, err := s.requireContext()
	if err != nil {
		return domain.Reply{}, err
	}
	reply, err := s.assistant.AssessmentAdvice(ctx, c.Type, c.Results, s.lang())
	if err != nil {
		s.logger.Warn("advice request failed", "type", c.Type, "error", err)
		return domain.Reply{}, err
	}
	s.record(domain.Message{Role: domain.RoleAssistant, Content: reply.Text})
	return reply, nil
}

// Analyze requests the rehabilitation analysis of the current assessment.
func (s *ChatService) Analyze(ctx context.Context) (domain.Reply, error) {
	c, err := s.requireContext()
	if err != nil {
		return domain.Reply{}, err
	}
	data := make(map[string]any, len(c.Inputs)+len(c.Results))
	for k, v := range c.Inputs {
		data[k] = v
	}
	for k, v := range c.Results {
		data[k] = v
	}
	reply, err := s.assistant.Analyze(ctx, c.Type, data, s.lang())
	if err != nil {
		s.logger.Warn("analysis request failed", "type", c.Type, "error", err)
		return domain.Reply{}, err
	}
	s.record(domain.Message{Role: domain.RoleAssistant, Content: reply.Text})
	return reply, nil
}
