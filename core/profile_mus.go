package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for stored records, hand-composed from mus-go primitives.
// Field order is part of the on-disk format; append new fields at the end.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

// EducationMUS serializes Education entries.
var EducationMUS = educationMUS{}

// WorkExperienceMUS serializes WorkExperience entries.
var WorkExperienceMUS = workExperienceMUS{}

// ProfileMUS serializes Profiles.
var ProfileMUS = profileMUS{}

var (
	stringSliceMUS     = ord.NewSliceSer[string](ord.String)
	float32SliceMUS    = ord.NewSliceSer[float32](raw.Float32)
	educationSliceMUS  = ord.NewSliceSer[Education](EducationMUS)
	experienceSliceMUS = ord.NewSliceSer[WorkExperience](WorkExperienceMUS)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type educationMUS struct{}

func (educationMUS) Marshal(e Education, bs []byte) (n int) {
	n = ord.String.Marshal(e.Degree, bs)
	n += ord.String.Marshal(e.University, bs[n:])
	n += ord.String.Marshal(e.Year, bs[n:])
	return n
}

func (educationMUS) Unmarshal(bs []byte) (e Education, n int, err error) {
	var n1 int
	if e.Degree, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if e.University, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Year, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	return e, n + n1, nil
}

func (educationMUS) Size(e Education) int {
	return ord.String.Size(e.Degree) + ord.String.Size(e.University) +
		ord.String.Size(e.Year)
}

func (educationMUS) Skip(bs []byte) (n int, err error) {
	for i := 0; i < 3; i++ {
		n1, err := ord.String.Skip(bs[n:])
		if err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type workExperienceMUS struct{}

func (workExperienceMUS) Marshal(w WorkExperience, bs []byte) (n int) {
	n = ord.String.Marshal(w.JobTitle, bs)
	n += ord.String.Marshal(w.Company, bs[n:])
	n += ord.String.Marshal(w.Duration, bs[n:])
	return n
}

func (workExperienceMUS) Unmarshal(bs []byte) (w WorkExperience, n int, err error) {
	var n1 int
	if w.JobTitle, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if w.Company, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return w, n + n1, err
	}
	n += n1
	if w.Duration, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return w, n + n1, err
	}
	return w, n + n1, nil
}

func (workExperienceMUS) Size(w WorkExperience) int {
	return ord.String.Size(w.JobTitle) + ord.String.Size(w.Company) +
		ord.String.Size(w.Duration)
}

func (workExperienceMUS) Skip(bs []byte) (n int, err error) {
	for i := 0; i < 3; i++ {
		n1, err := ord.String.Skip(bs[n:])
		if err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

type profileMUS struct{}

func (profileMUS) Marshal(p Profile, bs []byte) (n int) {
	n = IDMUS.Marshal(p.Id, bs)
	n += ord.String.Marshal(p.FirstName, bs[n:])
	n += ord.String.Marshal(p.LastName, bs[n:])
	n += ord.String.Marshal(p.Email, bs[n:])
	n += ord.String.Marshal(p.PhoneNumber, bs[n:])
	n += stringSliceMUS.Marshal(p.Skills, bs[n:])
	n += educationSliceMUS.Marshal(p.Education, bs[n:])
	n += experienceSliceMUS.Marshal(p.WorkExperience, bs[n:])
	n += stringSliceMUS.Marshal(p.Certifications, bs[n:])
	n += float32SliceMUS.Marshal(p.Embedding, bs[n:])
	n += ord.String.Marshal(p.CvPath, bs[n:])
	n += varint.Int64.Marshal(p.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(p.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (profileMUS) Unmarshal(bs []byte) (p Profile, n int, err error) {
	var n1 int
	if p.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if p.FirstName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.LastName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Email, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.PhoneNumber, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Skills, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Education, n1, err = educationSliceMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.WorkExperience, n1, err = experienceSliceMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Certifications, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.Embedding, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	if p.CvPath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1

	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.InsertedAt = time.UnixMicro(micros).UTC()
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return p, n + n1, err
	}
	n += n1
	p.UpdatedAt = time.UnixMicro(micros).UTC()
	return p, n, nil
}

func (profileMUS) Size(p Profile) int {
	return IDMUS.Size(p.Id) +
		ord.String.Size(p.FirstName) +
		ord.String.Size(p.LastName) +
		ord.String.Size(p.Email) +
		ord.String.Size(p.PhoneNumber) +
		stringSliceMUS.Size(p.Skills) +
		educationSliceMUS.Size(p.Education) +
		experienceSliceMUS.Size(p.WorkExperience) +
		stringSliceMUS.Size(p.Certifications) +
		float32SliceMUS.Size(p.Embedding) +
		ord.String.Size(p.CvPath) +
		varint.Int64.Size(p.InsertedAt.UnixMicro()) +
		varint.Int64.Size(p.UpdatedAt.UnixMicro())
}

func (m profileMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = m.Unmarshal(bs)
	return n, err
}
