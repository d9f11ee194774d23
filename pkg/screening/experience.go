package screening

import "strconv"

type ExperienceBucket string

const (
	BucketBeginner     ExperienceBucket = "beginner"
	BucketIntermediate ExperienceBucket = "intermediate"
	BucketAdvanced     ExperienceBucket = "advanced"
)

// BucketFor classifies years of experience: under 2 is beginner, 2 through 5
// intermediate, above 5 advanced. Unparseable input counts as intermediate.
func BucketFor(years string) ExperienceBucket {
	y, err := strconv.ParseFloat(years, 64)
	if err != nil {
		return BucketIntermediate
	}
	switch {
	case y < 2:
		return BucketBeginner
	case y <= 5:
		return BucketIntermediate
	default:
		return BucketAdvanced
	}
}
