package consultation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/timezone"
)

// ======================================================
// SLOT CATALOG
// ======================================================
//
// Conjunto fixo de horários elegíveis para agendamento,
// carregado da configuração (não derivado da agenda do cuidador).

type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

type SlotCatalog struct {
	times    []TimeOfDay
	duration time.Duration
	tz       string
}

// NewSlotCatalog interpreta a lista "08:00,10:00,..." da configuração.
func NewSlotCatalog(csv string, durationMin int, tz string) (*SlotCatalog, error) {
	if durationMin <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", durationMin)
	}

	var times []TimeOfDay
	for _, raw := range strings.Split(csv, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		parsed, err := time.Parse("15:04", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid slot time %q: %w", raw, err)
		}

		times = append(times, TimeOfDay{
			Hour:   parsed.Hour(),
			Minute: parsed.Minute(),
		})
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("slot catalog is empty")
	}

	sort.Slice(times, func(i, j int) bool {
		if times[i].Hour != times[j].Hour {
			return times[i].Hour < times[j].Hour
		}
		return times[i].Minute < times[j].Minute
	})

	return &SlotCatalog{
		times:    times,
		duration: time.Duration(durationMin) * time.Minute,
		tz:       tz,
	}, nil
}

// Contains verifica se t cai exatamente em um horário do catálogo,
// avaliado no fuso da clínica.
func (c *SlotCatalog) Contains(t time.Time) bool {
	local := t.In(timezone.Location(c.tz))
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}

	for _, tod := range c.times {
		if local.Hour() == tod.Hour && local.Minute() == tod.Minute {
			return true
		}
	}
	return false
}

// EndOf devolve o fim do slot de duração fixa iniciado em start.
func (c *SlotCatalog) EndOf(start time.Time) time.Time {
	return start.Add(c.duration)
}

func (c *SlotCatalog) Duration() time.Duration {
	return c.duration
}

func (c *SlotCatalog) Times() []TimeOfDay {
	out := make([]TimeOfDay, len(c.times))
	copy(out, c.times)
	return out
}

func (c *SlotCatalog) Timezone() string {
	return c.tz
}
