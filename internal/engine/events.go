package engine

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/redrock/internal/data"
	"github.com/talgya/redrock/internal/economy"
	"github.com/talgya/redrock/internal/entropy"
	"github.com/talgya/redrock/internal/settlers"
	"github.com/talgya/redrock/internal/state"
)

// eventCategories are rolled independently each day.
var eventCategories = []string{"social", "economic", "environmental", "conflict"}

const dailyEventChance = 0.3

// generateEvents rolls each category once per day and instantiates a
// template with eligible participants.
func (e *Engine) generateEvents() {
	for _, category := range eventCategories {
		if !e.rng.Chance(dailyEventChance) {
			continue
		}
		templates := e.tables.Events[category]
		if len(templates) == 0 {
			continue
		}
		tmpl := entropy.Choice(e.rng, templates)
		ev := e.instantiate(category, tmpl)
		if ev != nil {
			e.gs.QueueEvent(ev)
		}
	}
}

// instantiate fills a template: checks resource requirements, draws
// participants, and substitutes placeholders. Returns nil when the
// event cannot happen today.
func (e *Engine) instantiate(category string, tmpl data.EventTemplate) *state.Event {
	for resName, minimum := range tmpl.Requirements {
		res, ok := economy.ParseResource(resName)
		if !ok {
			slog.Warn("event template requires unknown resource, skipping event",
				"category", category, "resource", resName)
			return nil
		}
		if e.gs.Resources.Amount(res) < minimum {
			return nil
		}
	}

	eligible := e.eligibleParticipants()
	if len(eligible) < tmpl.Participants {
		return nil
	}
	participants := entropy.Sample(e.rng, eligible, tmpl.Participants)

	description := tmpl.Template
	for i, p := range participants {
		placeholder := "{name}"
		if i > 0 {
			placeholder = "{name2}"
		}
		description = strings.Replace(description, placeholder, p.Name, 1)
	}
	if strings.Contains(description, "{location}") && len(e.tables.Locations) > 0 {
		loc := entropy.Choice(e.rng, e.tables.Locations)
		description = strings.ReplaceAll(description, "{location}", loc.Name)
	}

	effects := make([]state.EventEffect, 0, len(tmpl.Effects))
	for _, spec := range tmpl.Effects {
		effects = append(effects, state.EventEffect{
			Type:     spec.Type,
			Target:   spec.Target,
			Resource: spec.Resource,
			Skill:    spec.Skill,
			Modifier: spec.Modifier,
		})
	}

	return &state.Event{
		ID:           uuid.NewString(),
		Type:         category,
		Description:  description,
		Participants: participants,
		Effects:      effects,
		Severity:     e.rng.Int(2, 5),
		Date:         e.gs.Date,
	}
}

// eligibleParticipants filters the roster to settlers fit to take part
// in the day's happenings.
func (e *Engine) eligibleParticipants() []*settlers.Character {
	var out []*settlers.Character
	for _, c := range e.gs.Alive() {
		if c.Stats.Health > 20 && c.Stats.Energy > 10 {
			out = append(out, c)
		}
	}
	return out
}

// processEvents applies every queued event's effects, records it in
// the chronicle, and archives the queue.
func (e *Engine) processEvents() {
	for _, ev := range e.gs.EventQueue {
		for _, effect := range ev.Effects {
			e.applyEffect(ev, effect)
		}
		e.gs.AddChronicle(ev.Description, ev.Type, ev.Severity, participantNames(ev)...)
	}
	e.gs.ArchiveEvents()
}

func participantNames(ev *state.Event) []string {
	names := make([]string, 0, len(ev.Participants))
	for _, p := range ev.Participants {
		names = append(names, p.Name)
	}
	return names
}

// applyEffect dispatches one effect row. Unknown resource or skill
// keys are logged and skipped rather than silently misapplied.
func (e *Engine) applyEffect(ev *state.Event, effect state.EventEffect) {
	switch effect.Type {
	case "mood":
		targets := ev.Participants
		if effect.Target == "all" {
			targets = e.gs.Alive()
		}
		for _, c := range targets {
			c.AdjustMood(effect.Modifier)
		}
	case "health":
		for _, c := range ev.Participants {
			c.AdjustHealth(effect.Modifier)
		}
	case "resource":
		res, ok := economy.ParseResource(effect.Resource)
		if !ok {
			slog.Warn("event effect names unknown resource, skipped",
				"event", ev.ID, "resource", effect.Resource)
			return
		}
		e.gs.Resources.Add(res, effect.Modifier)
	case "skill":
		sk, ok := settlers.ParseSkill(effect.Skill)
		if !ok {
			slog.Warn("event effect names unknown skill, skipped",
				"event", ev.ID, "skill", effect.Skill)
			return
		}
		for _, c := range ev.Participants {
			c.Stats.Skills.Add(sk, int(effect.Modifier))
		}
	case "disease_outbreak":
		name, ok := settlers.ParseDisease(effect.Resource)
		if !ok {
			slog.Warn("event effect names unknown disease, skipped",
				"event", ev.ID, "disease", effect.Resource)
			return
		}
		for _, c := range ev.Participants {
			e.medical.AddDisease(c, name, "the "+ev.Type+" event")
		}
	default:
		slog.Warn("unknown event effect type, skipped",
			"event", ev.ID, "type", effect.Type)
	}
}
