package validate

import "fmt"

// Canonical example payloads, used to seed empty data editors. Each literal
// passes its own schema (covered by tests).

const chartExample = `{
  "labels": ["Math", "Science", "English", "History", "Art"],
  "datasets": [
    {
      "label": "Scores",
      "data": [85, 92, 78, 88, 95],
      "colors": ["#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de"]
    }
  ]
}`

const studentExample = `{
  "studentName": "Ada Lovelace",
  "studentId": "S-2024-0042",
  "classroom": "Grade 8, Room 3",
  "teacher": "Ms. Byron",
  "semester": "Fall 2025"
}`

const scoreExample = `{
  "subjects": [
    {"name": "Math", "score": 85, "grade": "B", "maxScore": 100},
    {"name": "Science", "score": 92, "grade": "A", "maxScore": 100},
    {"name": "English", "score": 78, "grade": "C", "maxScore": 100}
  ],
  "overallGrade": "B",
  "gpa": 3.2,
  "rank": 12
}`

const templateExample = `{
  "studentName": "Ada Lovelace",
  "studentId": "S-2024-0042",
  "classroom": "Grade 8, Room 3",
  "mathScore": 85,
  "scienceScore": 92,
  "englishScore": 78,
  "mathGrade": "B",
  "scienceGrade": "A",
  "englishGrade": "C"
}`

// ExampleJSON returns the canonical pretty-printed example for a kind.
func ExampleJSON(kind Kind) (string, error) {
	switch kind {
	case KindChart:
		return chartExample, nil
	case KindStudent:
		return studentExample, nil
	case KindScore:
		return scoreExample, nil
	case KindTemplate:
		return templateExample, nil
	default:
		return "", fmt.Errorf("unknown data kind %q", kind)
	}
}
