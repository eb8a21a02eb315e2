// Package charging decides where and how much an electric vehicle charges
// along a route.
//
// The Optimizer runs a dynamic program with one stage per stop and the
// battery state of charge discretized in 10% buckets. Each transition charges
// the vehicle by a multiple of 10% and drives the following leg; the program
// keeps, per stage and bucket, the fastest way to get there. Traditional is a
// greedy baseline that charges to full whenever the next leg cannot be
// covered.
package charging
