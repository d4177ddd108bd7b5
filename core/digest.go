package core

import "strings"

// EmbeddingDigest canonicalizes a profile into the deterministic text form
// used as embedding input. Segments appear only when the corresponding field
// is non-empty and are joined with " | ".
//
// The segment order, field order within entries, and joiners are an explicit
// contract: changing any of them changes embeddings for all future documents
// and must be treated as a breaking schema change (see the reembed package).
func EmbeddingDigest(profile *Profile) string {
	var parts []string

	if len(profile.WorkExperience) > 0 {
		entries := make([]string, len(profile.WorkExperience))
		for i, exp := range profile.WorkExperience {
			entries[i] = exp.JobTitle + " at " + exp.Company + " (" + exp.Duration + ")"
		}
		parts = append(parts, "Experience: "+strings.Join(entries, "; "))
	}

	if len(profile.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(profile.Skills, ", "))
	}

	if len(profile.Education) > 0 {
		entries := make([]string, len(profile.Education))
		for i, edu := range profile.Education {
			entries[i] = edu.Degree + " from " + edu.University + " (" + edu.Year + ")"
		}
		parts = append(parts, "Education: "+strings.Join(entries, "; "))
	}

	if len(profile.Certifications) > 0 {
		parts = append(parts, "Certifications: "+strings.Join(profile.Certifications, ", "))
	}

	return strings.Join(parts, " | ")
}
