package services

import (
	"context"
	"strings"
)

type PaymentVerifier interface {
	Verify(ctx context.Context, token string, amount float64) error
}

/*
DemoPaymentService accepts any test card token. No money moves.
*/
type DemoPaymentService struct{}

func NewDemoPaymentService() DemoPaymentService {
	return DemoPaymentService{}
}

func (DemoPaymentService) Verify(ctx context.Context, token string, amount float64) error {
	if !strings.HasPrefix(strings.TrimSpace(token), "tok_") || amount <= 0 {
		return ErrPaymentDeclined
	}

	return nil
}
