package view

import (
	"html/template"

	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

// Element IDs of the modal markup.
const (
	ModalRootID      = "modal-root"
	ModalBackdropID  = "modal-backdrop"
	ModalSurfaceID   = "modal-surface"
	ModalPreviousID  = "modal-prev"
	ModalNextID      = "modal-next"
	ModalCloseID     = "modal-close"
	ModalInstagramID = "modal-instagram"
	// ModalLinkIDPrefix prefixes the ids given to links in the profile,
	// numbered from 1: modal-link-1, modal-link-2 and so on.
	ModalLinkIDPrefix = "modal-link"
)

// ModalData is the open member detail modal.
type ModalData struct {
	Page
	View     service.ModalView
	Birthday string
	Profile  template.HTML
}

// NewModalData builds the modal model for the current selection.
func NewModalData(p Page, v service.ModalView) ModalData {
	birthday, _ := service.FormatBirthday(v.Member.Birthday, p.Lang)
	return ModalData{
		Page:     p,
		View:     v,
		Birthday: birthday,
		Profile:  ModalMarkdown(v.Member.Profile),
	}
}
