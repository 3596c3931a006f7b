// Package stuff is the domain of the reference API: plain resources, and resources related to them.
package stuff

import (
	"fmt"
	"slices"
	"strings"

	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/restassured/port/crud"
)

const (
	ErrInvalid              errorkit.Error = "invalid"
	ErrUnknownTransition    errorkit.Error = "unknown transition"
	ErrTransitionNotAllowed errorkit.Error = "transition not allowed"
)

// MaxAnswer is the largest accepted Answer.
const MaxAnswer = 32767

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

type Stuff struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Answer *int   `json:"answer"`
	Status Status `json:"status"`
}

func (s Stuff) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalid.F("name: this field is required")
	}
	if 200 < len(s.Name) {
		return ErrInvalid.F("name: ensure this field has no more than 200 characters")
	}
	if s.Answer != nil && (*s.Answer < 0 || MaxAnswer < *s.Answer) {
		return ErrInvalid.F("answer: ensure this value is between 0 and %d", MaxAnswer)
	}
	switch s.Status {
	case StatusDraft, StatusPublished, StatusArchived:
		return nil
	default:
		return ErrInvalid.F("status: %q is not a valid choice", s.Status)
	}
}

type transition struct {
	From []Status
	To   Status
}

var transitions = map[string]transition{
	"publish": {From: []Status{StatusDraft}, To: StatusPublished},
	"archive": {From: []Status{StatusDraft, StatusPublished}, To: StatusArchived},
	"restore": {From: []Status{StatusArchived}, To: StatusDraft},
}

// Transitions lists the state transition names.
func Transitions() []string {
	names := make([]string, 0, len(transitions))
	for name := range transitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Transition moves the Stuff into the state the named transition leads to.
func (s *Stuff) Transition(name string) error {
	t, ok := transitions[name]
	if !ok {
		return ErrUnknownTransition.F("%s", name)
	}
	if !slices.Contains(t.From, s.Status) {
		return ErrTransitionNotAllowed.F("can't %s stuff in %s status", name, s.Status)
	}
	s.Status = t.To
	return nil
}

type RelatedStuff struct {
	ID    int64 `json:"id"`
	Thing int64 `json:"thing" rest:"thing,relation"`
}

type ManyRelatedStuff struct {
	ID    int64   `json:"id"`
	Stuff []int64 `json:"stuff" rest:"stuff,relations"`
}

type (
	StuffRepository            = crud.Repository[Stuff, int64]
	RelatedStuffRepository     = crud.Repository[RelatedStuff, int64]
	ManyRelatedStuffRepository = crud.Repository[ManyRelatedStuff, int64]
)

// Storage groups the repositories of the domain.
type Storage struct {
	Stuff            StuffRepository
	RelatedStuff     RelatedStuffRepository
	ManyRelatedStuff ManyRelatedStuffRepository
}

func (s Storage) Validate() error {
	if s.Stuff == nil || s.RelatedStuff == nil || s.ManyRelatedStuff == nil {
		return fmt.Errorf("stuff.Storage is missing a repository")
	}
	return nil
}
