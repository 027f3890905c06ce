package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/mehfilportal/admin-api/internal/model"
)

// Service sends notification mail to karkuns. Delivery is best-effort;
// callers log failures and move on.
type Service interface {
	SendCoordinatorAssigned(ctx context.Context, to, karkunName, mehfilName string, coordinatorType model.CoordinatorType) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Service {
	if !cfg.Enabled {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendCoordinatorAssigned(_ context.Context, to, karkunName, mehfilName string, coordinatorType model.CoordinatorType) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Coordinator assignment")
	m.SetBody("text/plain", fmt.Sprintf(
		"Assalam-o-Alaikum %s,\n\nYou have been assigned as %s for %s.\n\nPlease check the portal for your weekly duties.",
		karkunName, coordinatorType, mehfilName,
	))
	return s.dialer.DialAndSend(m)
}

type noopService struct{}

func (s *noopService) SendCoordinatorAssigned(context.Context, string, string, string, model.CoordinatorType) error {
	return nil
}
