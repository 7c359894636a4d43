package in

import (
	"context"

	"rehab/internal/modules/chat/dto"
	chatin "rehab/internal/modules/chat/port/in"
)

type CLIHandler struct {
	usecase chatin.Usecase
}

func NewCLIHandler(usecase chatin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Send(ctx context.Context, text string) (dto.ReplyOutput, error) {
	return h.usecase.Send(ctx, text)
}

func (h CLIHandler) Complete(ctx context.Context, text string) (dto.ReplyOutput, error) {
	return h.usecase.Complete(ctx, text)
}

func (h CLIHandler) Advice(ctx context.Context) (dto.ReplyOutput, error) {
	return h.usecase.Advice(ctx)
}

func (h CLIHandler) Analyze(ctx context.Context) (dto.ReplyOutput, error) {
	return h.usecase.Analyze(ctx)
}

func (h CLIHandler) Transcript() []dto.MessageOutput {
	return h.usecase.Transcript()
}

func (h CLIHandler) Reset() {
	h.usecase.Reset()
}
