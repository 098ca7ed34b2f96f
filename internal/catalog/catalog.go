// Package catalog holds the static curriculum: grade levels, subjects,
// supported languages, which subjects each grade offers, and the topic
// suggestions used by "Surprise Me" and recommendations.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed curriculum.yaml
var curriculumYAML []byte

// Language is a supported lesson language.
type Language struct {
	Name   string `yaml:"name"`
	Native string `yaml:"native"`
}

// Label renders the language as "Hindi (हिन्दी)", or just the name when
// the native spelling is the same.
func (l Language) Label() string {
	if l.Native == "" || l.Native == l.Name {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Native)
}

// Catalog is the parsed curriculum table. It is read-only after load.
type Catalog struct {
	HighSchool    []string                       `yaml:"high_school"`
	GradeList     []string                       `yaml:"grades"`
	SubjectList   []string                       `yaml:"subjects"`
	LanguageList  []Language                     `yaml:"languages"`
	GradeSubjects map[string][]string            `yaml:"grade_subjects"`
	TopicTable    map[string]map[string][]string `yaml:"topics"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded curriculum. The table ships with the binary,
// so a parse failure is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(curriculumYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded curriculum: %v", defaultErr))
	}
	return defaultCat
}

// Parse decodes and checks a curriculum document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	if len(c.GradeList) == 0 {
		return nil, fmt.Errorf("curriculum has no grades")
	}
	if len(c.LanguageList) == 0 {
		return nil, fmt.Errorf("curriculum has no languages")
	}
	for grade, subjects := range c.GradeSubjects {
		if !slices.Contains(c.GradeList, grade) {
			return nil, fmt.Errorf("grade_subjects: unknown grade %q", grade)
		}
		for _, s := range subjects {
			if !slices.Contains(c.SubjectList, s) {
				return nil, fmt.Errorf("grade_subjects[%s]: unknown subject %q", grade, s)
			}
		}
	}
	for grade, bySubject := range c.TopicTable {
		for subject := range bySubject {
			if !c.Offers(grade, subject) {
				return nil, fmt.Errorf("topics[%s]: subject %q not offered", grade, subject)
			}
		}
	}
	return &c, nil
}

func (c *Catalog) Grades() []string { return c.GradeList }
func (c *Catalog) Subjects() []string { return c.SubjectList }
func (c *Catalog) Languages() []Language { return c.LanguageList }
func (c *Catalog) DefaultGrade() string { return c.GradeList[0] }
func (c *Catalog) DefaultLanguage() string { return c.LanguageList[0].Name }

// SubjectsFor returns the subjects offered for grade, in display order.
func (c *Catalog) SubjectsFor(grade string) []string {
	return c.GradeSubjects[grade]
}

// Offers reports whether subject is taught in grade.
func (c *Catalog) Offers(grade, subject string) bool {
	return slices.Contains(c.GradeSubjects[grade], subject)
}

// Topics returns the suggested topics for (grade, subject), possibly none.
func (c *Catalog) Topics(grade, subject string) []string {
	return c.TopicTable[grade][subject]
}

// RandomTopic picks a suggestion uniformly at random. ok is false when the
// table has nothing for (grade, subject).
func (c *Catalog) RandomTopic(grade, subject string, rng *rand.Rand) (topic string, ok bool) {
	topics := c.Topics(grade, subject)
	if len(topics) == 0 {
		return "", false
	}
	return topics[rng.IntN(len(topics))], true
}

// IsHighSchool reports whether grade gets the senior-secondary treatment
// (formal tone, lower sampling temperature, calmer default voice).
func (c *Catalog) IsHighSchool(grade string) bool {
	return slices.Contains(c.HighSchool, grade)
}

// HasLanguage reports whether name is a supported language.
func (c *Catalog) HasLanguage(name string) bool {
	return slices.ContainsFunc(c.LanguageList, func(l Language) bool { return l.Name == name })
}

// HasGrade reports whether grade is a known grade level.
func (c *Catalog) HasGrade(grade string) bool {
	return slices.Contains(c.GradeList, grade)
}
