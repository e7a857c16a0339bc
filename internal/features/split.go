package features

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"tweetsent/internal/domain"
)

// Split is a train/test partition. TrainIndex and TestIndex give the
// corpus position of every entry, in corpus order.
type Split struct {
	TrainText  []string
	TestText   []string
	TrainLabel []domain.Label
	TestLabel  []domain.Label
	TrainIndex []int
	TestIndex  []int
}

// StratifiedSplit partitions texts and labels so that each class keeps its
// share in both halves. Each class contributes round(n*testRatio) entries
// to the test side, clamped so that both sides get at least one. The same
// seed always produces the same partition.
func StratifiedSplit(texts []string, labels []domain.Label, testRatio float64, seed int64) (*Split, error) {
	if len(texts) != len(labels) {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("%d documents but %d labels", len(texts), len(labels))}
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, fmt.Errorf("test ratio must be in (0, 1), got %v", testRatio)
	}

	byClass := make(map[domain.Label][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	if len(byClass) < 2 {
		return nil, &domain.InsufficientDataError{Reason: fmt.Sprintf("need at least 2 classes, found %d", len(byClass))}
	}
	classes := make([]domain.Label, 0, len(byClass))
	for l, members := range byClass {
		if len(members) < 2 {
			return nil, &domain.InsufficientDataError{Reason: fmt.Sprintf("class %q has a single member", l)}
		}
		classes = append(classes, l)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	rng := rand.New(rand.NewSource(seed))
	var train, test []int
	for _, l := range classes {
		members := append([]int(nil), byClass[l]...)
		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		n := int(math.Round(float64(len(members)) * testRatio))
		n = min(max(n, 1), len(members)-1)
		test = append(test, members[:n]...)
		train = append(train, members[n:]...)
	}
	sort.Ints(train)
	sort.Ints(test)

	s := &Split{TrainIndex: train, TestIndex: test}
	for _, i := range train {
		s.TrainText = append(s.TrainText, texts[i])
		s.TrainLabel = append(s.TrainLabel, labels[i])
	}
	for _, i := range test {
		s.TestText = append(s.TestText, texts[i])
		s.TestLabel = append(s.TestLabel, labels[i])
	}
	return s, nil
}
