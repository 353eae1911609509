// Package domain holds the weather alert rules: the WMO weather-code table,
// the trigger catalog, the temperature band and the composition of the
// daily notification.
//
// # Composition order
//
// A notification is assembled from fragments joined by single spaces:
//
//  1. "Птичка напела, что на улице <category>."   first matching trigger only
//  2. one temperature sentence                   freezing, heat, or neutral
//  3. cold-snap warning                          only without a trigger
//  4. closing remark about delivery demand       always
//
// The sticker follows the same priority: a trigger selects the sticker mapped
// to the exact category (possibly none), otherwise the band selects the cold
// or hot sticker, and a cold snap overrides both with the ice sticker.
//
// # Cold snap
//
// Yesterday's average was above 0°C and today's is below 0°C. Zero on either
// side does not count.
//
// # Rounding
//
// The daily average is (max+min)/2 rounded to one decimal, half to even on
// the exact binary value. See RoundTemperature.
package domain
