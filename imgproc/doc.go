// Package imgproc provides stateless image transforms used to prepare
// captures for OCR and display. Every function takes encoded image
// bytes and returns encoded image bytes; nothing here shares state with
// the search engine.
package imgproc
