// Package api exposes the engine's operational HTTP surface: health, status
// and the manual triggers for a dispatch or reset pass.
package api
