package library

import (
	"math/rand/v2"
	"strings"

	"github.com/abhisek/gyankosh/internal/catalog"
)

// MaxRecommendations caps how many suggestions are shown.
const MaxRecommendations = 3

// Recommendation is a topic the learner has not covered yet.
type Recommendation struct {
	Subject string
	Topic   string
}

// Recommend suggests unread topics in the learner's favourite subject for
// grade. The favourite is the most frequent subject in the library, ties
// going to whichever appears first (most recent). Topics already contained
// in a saved title are skipped.
func Recommend(lib Library, grade string, cat *catalog.Catalog, rng *rand.Rand) []Recommendation {
	favorite := favoriteSubject(lib)
	if favorite == "" {
		return nil
	}

	titles := make([]string, len(lib))
	for i := range lib {
		titles[i] = strings.ToLower(lib[i].Title)
	}

	var unread []string
	for _, topic := range cat.Topics(grade, favorite) {
		needle := strings.ToLower(topic)
		covered := false
		for _, title := range titles {
			if strings.Contains(title, needle) {
				covered = true
				break
			}
		}
		if !covered {
			unread = append(unread, topic)
		}
	}

	rng.Shuffle(len(unread), func(i, j int) { unread[i], unread[j] = unread[j], unread[i] })
	if len(unread) > MaxRecommendations {
		unread = unread[:MaxRecommendations]
	}

	out := make([]Recommendation, len(unread))
	for i, topic := range unread {
		out[i] = Recommendation{Subject: favorite, Topic: topic}
	}
	return out
}

func favoriteSubject(lib Library) string {
	counts := make(map[string]int)
	var order []string
	for i := range lib {
		s := lib[i].Subject
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}

	best, bestCount := "", 0
	for _, s := range order {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}
