// Package application contém os casos de uso do gate (decisão allow/deny,
// acquire/timeout de concorrência) sem dependência de net/http.
package application
