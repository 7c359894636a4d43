package in

import (
	"context"

	"rehab/internal/modules/chat/dto"
)

type Usecase interface {
	Send(ctx context.Context, text string) (dto.ReplyOutput, error)
	Complete(ctx context.Context, text string) (dto.ReplyOutput, error)
	Advice(ctx context.Context) (dto.ReplyOutput, error)
	Analyze(ctx context.Context) (dto.ReplyOutput, error)
	Transcript() []dto.MessageOutput
	Reset()
}
