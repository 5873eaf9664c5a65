// Package domain models hourly bike share demand prediction inputs and the
// engineered feature vector a trained regression model consumes.
//
// # Inputs
//
// A prediction request carries the readings a user picks on the form:
//
//	hour         0–23
//	temperature  -10.0–40.0 °C
//	humidity     0.0–100.0 %
//	windspeed    0.0–70.0 km/h
//	season       Spring | Summer | Fall | Winter
//	weather      Clear | Mist/Cloudy | Light Rain | Heavy Rain
//	weekday      Monday … Sunday
//
// The request date (month and year) is taken from the package clock at the
// moment of the request. See [SetClock].
//
// # Category Codes
//
// Categorical labels map onto the integer codes the model was trained with:
//
//	Season:  1 Spring, 2 Summer, 3 Fall, 4 Winter
//	Weather: 1 Clear, 2 Mist/Cloudy, 3 Light Rain, 4 Heavy Rain
//	Weekday: 0 Monday, 1 Tuesday, … 6 Sunday
//
// Labels are unique within each enumeration, so label → code lookups are
// unambiguous. An unknown label fails with a [*LookupError].
//
// # Feature Vector
//
// [Derive] produces 14 features in a fixed order that must match the training
// columns exactly:
//
//	season, hr, holiday, workingday, weathersit, temp, hum, windspeed,
//	month, day_of_week, year, rush_hours, part_of_day, day_interaction
//
// Normalization follows the training dataset: temp/41, hum/100, windspeed/67,
// and year is an offset from 2011.
//
// Working day and holiday are both derived from the weekday alone: Saturday and
// Sunday count as a holiday and not a working day. There is no holiday calendar.
//
// Rush hours are 07–09 and 16–19 on working days. Part of day buckets are
// morning [05,12), afternoon [12,17), evening [17,22) and night otherwise.
package domain
