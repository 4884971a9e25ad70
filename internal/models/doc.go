// Package models lists the OpenAI chat models usable by the OpenAI
// translation provider.
package models
