// Package carer converts raw carer profile documents into the canonical Carer entity.
//
// Documents arrive as untyped maps and leave as typed values. Nothing in this package
// performs I/O.
package carer

import (
	"fmt"
	"strings"
)

// DescriptionPlaceholder is shown when a carer has not written an introduction.
const DescriptionPlaceholder = "The carer is busy writing the introduction, come back later."

// DefaultPhotoSize is the avatar edge length used when none is requested.
const DefaultPhotoSize = 300

// Location is a finite latitude/longitude pair.
type Location struct {
	Lat float64
	Lng float64
}

// Carer is a service provider profile in the directory.
type Carer struct {
	ID          string
	Name        string
	Email       string
	Photo       string
	Description string
	Reviews     []int
	Address     string
	Location    *Location
}

// AverageRating returns the mean of the carer's reviews.
func (c Carer) AverageRating() float64 {
	return Average(c.Reviews)
}

// ReviewCount returns the number of reviews.
func (c Carer) ReviewCount() int {
	return len(c.Reviews)
}

// DescriptionOrPlaceholder returns the trimmed description, or DescriptionPlaceholder when empty.
func (c Carer) DescriptionOrPlaceholder() string {
	if content := strings.TrimSpace(c.Description); content != "" {
		return content
	}
	return DescriptionPlaceholder
}

// Clone returns a deep copy so callers cannot mutate shared review slices or locations.
func (c Carer) Clone() Carer {
	out := c
	if c.Reviews != nil {
		out.Reviews = append([]int(nil), c.Reviews...)
	}
	if c.Location != nil {
		loc := *c.Location
		out.Location = &loc
	}
	return out
}

// PlaceholderPhoto returns a generated avatar URL for carers without a photo.
func PlaceholderPhoto(size int) string {
	if size <= 0 {
		size = DefaultPhotoSize
	}
	return fmt.Sprintf("https://i.pravatar.cc/%d", size)
}
