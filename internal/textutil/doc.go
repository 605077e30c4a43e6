// Package textutil provides the small string helpers shared by the engine
// and the command line host.
//
// TrimAll strips every whitespace rune from a string and is used to derive
// host action names and trigger entry names from collection names. DisplayName
// turns an asset file name into a title-cased label, and IsEmptyChoice
// recognizes the placeholder values host choosers use for "nothing selected".
package textutil
