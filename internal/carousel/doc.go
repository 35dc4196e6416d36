// Package carousel holds the state of a slide carousel: the observable display
// style shared by every view of the carousel, and the cursor over its slides.
package carousel
