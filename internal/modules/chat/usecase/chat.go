package usecase

import (
	"context"

	"rehab/internal/modules/chat/domain"
	"rehab/internal/modules/chat/dto"
	chatin "rehab/internal/modules/chat/port/in"
	"rehab/internal/modules/chat/service"
)

type Interactor struct {
	svc *service.ChatService
}

func NewInteractor(svc *service.ChatService) chatin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Send(ctx context.Context, text string) (dto.ReplyOutput, error) {
	return toReply(i.svc.Send(ctx, text))
}

func (i *Interactor) Complete(ctx context.Context, text string) (dto.ReplyOutput, error) {
	return toReply(i.svc.Complete(ctx, text))
}

func (i *Interactor) Advice(ctx context.Context) (dto.ReplyOutput, error) {
	return toReply(i.svc.Advice(ctx))
}

func (i *Interactor) Analyze(ctx context.Context) (dto.ReplyOutput, error) {
	return toReply(i.svc.Analyze(ctx))
}

func (i *Interactor) Transcript() []dto.MessageOutput {
	msgs := i.svc.Transcript()
	out := make([]dto.MessageOutput, len(msgs))
	for idx, m := range msgs {
		out[idx] = dto.MessageOutput{Role: string(m.Role), Content: m.Content}
	}
	return out
}

func (i *Interactor) Reset() {
	i.svc.Reset()
}

func toReply(r domain.Reply, err error) (dto.ReplyOutput, error) {
	if err != nil {
		return dto.ReplyOutput{}, err
	}
	return dto.ReplyOutput{Text: r.Text, Advice: r.Advice, Recommendations: r.Recommendations}, nil
}
