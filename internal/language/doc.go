// Package language maps the language codes and names users type on the
// command line onto the forms each back-end expects: ISO 639-1 codes for the
// recogniser and TTS command, English names for the translation prompt.
package language
