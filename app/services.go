package app

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Demo services for the lazy-proxy engine. Both contracts are registered
// lazily (see provider.go): constructing a Reporter is "expensive" and pulls
// in a Mailer, so neither is built until an HTTP handler actually calls a
// method on the resolved proxy.

//go:generate go run github.com/admelck/lazy-proxy-unity/cmd/proxygen -type Mailer -out mailer_lazy.gen.go
//go:generate go run github.com/admelck/lazy-proxy-unity/cmd/proxygen -type Reporter -out reporter_lazy.gen.go

// Mailer delivers report notifications.
type Mailer interface {
	Send(to, subject, body string) error
	InstanceID() string
}

// Reporter produces reports and mails them out.
type Reporter interface {
	Generate(name string) (Report, error)
	Deliver(name, recipient string) error
	InstanceID() string
}

// Report is the demo payload.
type Report struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
}

// ── Implementations ───────────────────────────────────────────────────────────

// LogMailer "sends" mail by logging it. The constructor captures a fresh
// identifier so tests and the /status endpoint can observe when (and how
// often) construction actually happened.
type LogMailer struct {
	id string
}

func NewLogMailer() *LogMailer {
	m := &LogMailer{id: uuid.NewString()}
	log.Printf("mailer %s constructed", m.id)
	return m
}

func (m *LogMailer) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	log.Printf("mailer %s: to=%s subject=%q", m.id, to, subject)
	return nil
}

func (m *LogMailer) InstanceID() string { return m.id }

// ReportGenerator is the Reporter implementation. It holds a Mailer — in the
// lazy wiring this is itself a proxy, so the mail transport is only
// constructed once Deliver is first called.
type ReportGenerator struct {
	id     string
	mailer Mailer
}

func NewReportGenerator(mailer Mailer) *ReportGenerator {
	g := &ReportGenerator{id: uuid.NewString(), mailer: mailer}
	log.Printf("reporter %s constructed", g.id)
	return g
}

func (g *ReportGenerator) Generate(name string) (Report, error) {
	if name == "" {
		return Report{}, fmt.Errorf("reporter: empty report name")
	}
	return Report{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
		Author:    g.id,
	}, nil
}

func (g *ReportGenerator) Deliver(name, recipient string) error {
	report, err := g.Generate(name)
	if err != nil {
		return err
	}
	return g.mailer.Send(recipient, "report "+report.Name, report.ID)
}

func (g *ReportGenerator) InstanceID() string { return g.id }
