// Package media defines the data model shared by the container, codec and
// filter layers: pixel formats, frames with reference-counted planes,
// packets, stream descriptors and the error taxonomy.
package media
