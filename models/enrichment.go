package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// MinimumLikelihood is the confidence floor on the 0-10 likelihood scale. Only
// results at or above it are returned to callers or written to a cache tier.
const MinimumLikelihood = 6

type EnrichmentOutcome int

const (
	EnrichmentNoMatch EnrichmentOutcome = iota
	EnrichmentMatched
	EnrichmentFailed
)

func (o EnrichmentOutcome) String() string {
	switch o {
	case EnrichmentMatched:
		return "matched"
	case EnrichmentFailed:
		return "failed"
	default:
		return "no_match"
	}
}

// EnrichmentResult is the classified answer of the enrichment service: exactly one of
// Matched (Profile and Likelihood set), NoMatch, or Failed (Failure set).
type EnrichmentResult[T any] struct {
	Outcome    EnrichmentOutcome
	Profile    T
	Likelihood int
	Failure    *RemoteApiError
}

func MatchedResult[T any](profile T, likelihood int) EnrichmentResult[T] {
	return EnrichmentResult[T]{
		Outcome:    EnrichmentMatched,
		Profile:    profile,
		Likelihood: likelihood,
	}
}

func NoMatchResult[T any]() EnrichmentResult[T] {
	return EnrichmentResult[T]{Outcome: EnrichmentNoMatch}
}

func FailedResult[T any](failure *RemoteApiError) EnrichmentResult[T] {
	return EnrichmentResult[T]{
		Outcome: EnrichmentFailed,
		Failure: failure,
	}
}

// IsConfident is true for a match at or above the likelihood floor.
func (r EnrichmentResult[T]) IsConfident() bool {
	return r.Outcome == EnrichmentMatched && r.Likelihood >= MinimumLikelihood
}

type EnrichmentStrategy string

const (
	StrategyProfile    EnrichmentStrategy = "profile"
	StrategyName       EnrichmentStrategy = "name"
	StrategyEmail      EnrichmentStrategy = "email"
	StrategyExternalId EnrichmentStrategy = "external_id"
)

// EnrichPersonParams admits several identifying strategies. Exactly one of them
// must be supplied: strategies are never merged.
type EnrichPersonParams struct {
	Profile    string
	FirstName  string
	LastName   string
	Company    string
	Location   string
	Email      string
	ExternalId string
}

func (p EnrichPersonParams) Strategy() (EnrichmentStrategy, error) {
	var strategies []EnrichmentStrategy

	if strings.TrimSpace(p.Profile) != "" {
		strategies = append(strategies, StrategyProfile)
	}
	hasName := strings.TrimSpace(p.FirstName) != "" || strings.TrimSpace(p.LastName) != ""
	if hasName {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return "", errors.Wrap(BadParameterError, "both first_name and last_name are required")
		}
		strategies = append(strategies, StrategyName)
	}
	if !hasName && (strings.TrimSpace(p.Company) != "" || strings.TrimSpace(p.Location) != "") {
		return "", errors.Wrap(BadParameterError, "company and location only qualify a name lookup")
	}
	if strings.TrimSpace(p.Email) != "" {
		strategies = append(strategies, StrategyEmail)
	}
	if strings.TrimSpace(p.ExternalId) != "" {
		strategies = append(strategies, StrategyExternalId)
	}

	return exactlyOneStrategy(strategies)
}

type EnrichCompanyParams struct {
	Profile    string
	Name       string
	Website    string
	Location   string
	ExternalId string
}

func (p EnrichCompanyParams) Strategy() (EnrichmentStrategy, error) {
	var strategies []EnrichmentStrategy

	if strings.TrimSpace(p.Profile) != "" {
		strategies = append(strategies, StrategyProfile)
	}
	hasName := strings.TrimSpace(p.Name) != ""
	if hasName {
		strategies = append(strategies, StrategyName)
	}
	if !hasName && (strings.TrimSpace(p.Website) != "" || strings.TrimSpace(p.Location) != "") {
		return "", errors.Wrap(BadParameterError, "website and location only qualify a name lookup")
	}
	if strings.TrimSpace(p.ExternalId) != "" {
		strategies = append(strategies, StrategyExternalId)
	}

	return exactlyOneStrategy(strategies)
}

func exactlyOneStrategy(strategies []EnrichmentStrategy) (EnrichmentStrategy, error) {
	switch len(strategies) {
	case 0:
		return "", errors.Wrap(BadParameterError, "no identifying field was provided")
	case 1:
		return strategies[0], nil
	default:
		return "", errors.WithDetailf(
			errors.Wrap(BadParameterError, "only one identifying strategy can be used per lookup"),
			"got %d strategies", len(strategies))
	}
}
