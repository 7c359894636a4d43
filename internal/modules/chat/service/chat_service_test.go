package service_test

import (
	"context"
	"errors"
	"testing"

	"rehab/internal/modules/chat/domain"
	"rehab/internal/modules/chat/service"
	apperrors "rehab/internal/platform/errors"
)

type fakeAssistant struct {
	err          error
	lastMessages []domain.Message
	lastPatient  map[string]any
	lastLanguage string
	adviceType   string
}

func (f *fakeAssistant) PatientChat(_ context.Context, msgs []domain.Message, patient map[string]any, lang string) (domain.Reply, error) {
	f.lastMessages, f.lastPatient, f.lastLanguage = msgs, patient, lang
	if f.err != nil {
		return domain.Reply{}, f.err
	}
	return domain.Reply{Text: "reply to " + msgs[len(msgs)-1].Content}, nil
}

func (f *fakeAssistant) AssessmentAdvice(_ context.Context, t string, _ map[string]any, _ string) (domain.Reply, error) {
	f.adviceType = t
	return domain.Reply{Text: "rest well", Advice: "rest well"}, f.err
}

func (f *fakeAssistant) Analyze(_ context.Context, _ string, data map[string]any, _ string) (domain.Reply, error) {
	if f.err != nil {
		return domain.Reply{}, f.err
	}
	return domain.Reply{Text: "analysis", Recommendations: []string{"walk", "sleep"}}, nil
}

func (f *fakeAssistant) Complete(_ context.Context, msgs []domain.Message, _ string, _ map[string]any) (domain.Reply, error) {
	f.lastMessages = msgs
	return domain.Reply{Text: "done"}, f.err
}

type fixedContext struct {
	ctx domain.AssessmentContext
	ok  bool
}

func (f fixedContext) Current() (domain.AssessmentContext, bool) { return f.ctx, f.ok }

type lang string

func (l lang) Language() string { return string(l) }

func TestSendGrowsTranscriptOnlyOnSuccess(t *testing.T) {
	t.Parallel()
	assistant := &fakeAssistant{}
	svc := service.NewChatService(assistant, nil, lang("es"), nil)

	reply, err := svc.Send(context.Background(), "  hello ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Text != "reply to hello" || assistant.lastLanguage != "es" || assistant.lastPatient != nil {
		t.Fatalf("unexpected call: %+v %v %q", reply, assistant.lastPatient, assistant.lastLanguage)
	}
	if got := svc.Transcript(); len(got) != 2 || got[1].Role != domain.RoleAssistant {
		t.Fatalf("expected two messages, got %+v", got)
	}

	assistant.err = apperrors.NewNetworkError()
	if _, err := svc.Send(context.Background(), "again"); !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if got := svc.Transcript(); len(got) != 2 {
		t.Fatalf("failed send must not grow the transcript, got %d", len(got))
	}
	if len(assistant.lastMessages) != 3 {
		t.Fatalf("expected history plus new message, got %d", len(assistant.lastMessages))
	}
	if _, err := svc.Send(context.Background(), "   "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected empty message rejected, got %v", err)
	}
}

func TestAdviceNeedsCurrentAssessment(t *testing.T) {
	t.Parallel()
	assistant := &fakeAssistant{}
	svc := service.NewChatService(assistant, fixedContext{}, nil, nil)
	if _, err := svc.Advice(context.Background()); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	withCtx := service.NewChatService(assistant, fixedContext{ok: true, ctx: domain.AssessmentContext{
		Type:    "phq9",
		Results: map[string]any{"depression_level": "mild"},
	}}, nil, nil)
	reply, err := withCtx.Advice(context.Background())
	if err != nil || reply.Advice != "rest well" || assistant.adviceType != "phq9" {
		t.Fatalf("unexpected advice %+v err=%v", reply, err)
	}
	if _, err := withCtx.Send(context.Background(), "what now?"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if assistant.lastPatient["assessment_type"] != "phq9" {
		t.Fatalf("expected patient context, got %v", assistant.lastPatient)
	}
	analysis, err := withCtx.Analyze(context.Background())
	if err != nil || len(analysis.Recommendations) != 2 {
		t.Fatalf("unexpected analysis %+v err=%v", analysis, err)
	}
	if got := withCtx.Transcript(); len(got) != 4 {
		t.Fatalf("expected advice, exchange and analysis in transcript, got %d", len(got))
	}
	withCtx.Reset()
	if len(withCtx.Transcript()) != 0 {
		t.Fatalf("expected empty transcript after reset")
	}
}
