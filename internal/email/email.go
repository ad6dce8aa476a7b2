package email

import (
	"context"
	"log"

	"github.com/irodova/placestay/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("send email to user %s about %s at %s (%d rooms)", event.UserID, event.Type, event.PlaceName, event.Rooms)
	return nil
}
