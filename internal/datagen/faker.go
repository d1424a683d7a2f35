//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic retail feeds.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// FirstName generates a random first name.
func (f *Faker) FirstName() string {
	return f.faker.FirstName()
}

// LastName generates a random last name.
func (f *Faker) LastName() string {
	return f.faker.LastName()
}

// Street generates a random street address.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// ProductName generates a random product name.
func (f *Faker) ProductName() string {
	return f.faker.ProductName()
}

// Price generates a random price in the given range.
func (f *Faker) Price(min, max float64) float64 {
	return f.faker.Price(min, max)
}

// Number generates a random integer in the given range, inclusive.
func (f *Faker) Number(min, max int) int {
	return f.faker.Number(min, max)
}

// Float64 generates a random float in [0, 1).
func (f *Faker) Float64() float64 {
	return f.faker.Float64Range(0, 1)
}

// DateRange generates a random date between start and end.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}
