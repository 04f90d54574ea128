package models

import (
	"math"
	"strings"
)

// discussionKeyword marks a social action that also exercises communication.
const discussionKeyword = "Diskusi"

// ProfileScores holds the eight graduate-profile dimensions, each in [0,100].
type ProfileScores struct {
	Faith         int `json:"faith"`
	Citizenship   int `json:"citizenship"`
	Reasoning     int `json:"reasoning"`
	Creativity    int `json:"creativity"`
	Collaboration int `json:"collaboration"`
	Independence  int `json:"independence"`
	Health        int `json:"health"`
	Communication int `json:"communication"`
}

// Dimensions lists scores in display order with their labels.
func (p ProfileScores) Dimensions() []ProfileDimension {
	return []ProfileDimension{
		{Key: "faith", Label: "Keimanan", Score: p.Faith},
		{Key: "citizenship", Label: "Kewargaan", Score: p.Citizenship},
		{Key: "reasoning", Label: "Penalaran Kritis", Score: p.Reasoning},
		{Key: "creativity", Label: "Kreativitas", Score: p.Creativity},
		{Key: "collaboration", Label: "Kolaborasi", Score: p.Collaboration},
		{Key: "independence", Label: "Kemandirian", Score: p.Independence},
		{Key: "health", Label: "Kesehatan", Score: p.Health},
		{Key: "communication", Label: "Komunikasi", Score: p.Communication},
	}
}

// ProfileDimension is one labelled score.
type ProfileDimension struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// ScoreProfiles derives the eight dimension scores from a sequence of habit payloads.
// Each raw total is divided by max(n*10, 10), scaled to 100, rounded and capped.
func ScoreProfiles(habits []Habits) ProfileScores {
	var raw ProfileScores
	for _, h := range habits {
		if len(h.WorshipList) > 0 {
			raw.Faith += 10
		}
		if h.SocialAction != "" {
			raw.Citizenship += 5
			raw.Collaboration += 5
		}
		if h.StudySubject != "" {
			raw.Reasoning += 5
		}
		if h.Extracurricular != "" {
			raw.Creativity += 5
		}
		if h.WakeTime != "" && h.SleepTime != "" {
			raw.Independence += 5
		}
		if h.SportType != "" || h.HealthyMeal != "" {
			raw.Health += 10
		}
		if strings.Contains(h.SocialAction, discussionKeyword) {
			raw.Communication += 10
		} else {
			raw.Communication += 2
		}
	}

	denominator := float64(len(habits) * 10)
	if denominator < 10 {
		denominator = 10
	}
	normalize := func(v int) int {
		score := int(math.Round(float64(v) / denominator * 100))
		if score > 100 {
			return 100
		}
		return score
	}

	return ProfileScores{
		Faith:         normalize(raw.Faith),
		Citizenship:   normalize(raw.Citizenship),
		Reasoning:     normalize(raw.Reasoning),
		Creativity:    normalize(raw.Creativity),
		Collaboration: normalize(raw.Collaboration),
		Independence:  normalize(raw.Independence),
		Health:        normalize(raw.Health),
		Communication: normalize(raw.Communication),
	}
}

// HabitsOf extracts habit payloads from entries.
func HabitsOf(entries []JournalEntry) []Habits {
	out := make([]Habits, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Habits)
	}
	return out
}
