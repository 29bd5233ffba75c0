package checker

import "pingcheck/internal/models"

const (
	headlineCheck   = "Check connection"
	headlineWaiting = "Waiting for connection..."
	headlineSuccess = "Congratulations!"

	helperSend    = "Send a ping to verify the connection"
	helperSuccess = "You connected your app successfully."
)

// ViewFor maps a status to the headline block. Unknown statuses render as idle.
func ViewFor(status models.Status) models.View {
	switch status {
	case models.StatusLoading:
		return models.View{Headline: headlineWaiting, Spinner: true}
	case models.StatusSuccess:
		return models.View{Headline: headlineSuccess, Helper: helperSuccess, ButtonVisible: true}
	default:
		return models.View{Headline: headlineCheck, Helper: helperSend, ButtonVisible: true}
	}
}
