// Package planes implements the hardware planes and registers the probers
// of their device families with the display package.
package planes
