package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/verify-bot/internal/application/verification"
	"github.com/verify-bot/internal/domain"
	"github.com/verify-bot/internal/pkg/validate"
)

// Component and modal identifiers the bot dispatches on.
const (
	customIDOpenVerifyModal = "open_verify_modal"
	customIDVerifyModal     = "verify_modal"
	customIDCodeInput       = "verification_code"
)

// InteractionHandler dispatches signed interaction callbacks to the
// verification service. It is stateless; every invocation stands alone.
type InteractionHandler struct {
	svc verification.Service
}

func NewInteractionHandler(svc verification.Service) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// Handle processes one interaction envelope. Unknown types, commands and
// components all fall back to an ephemeral message, never an error status.
func (h *InteractionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var in domain.Interaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid interaction payload")
		return
	}

	switch in.Type {
	case domain.InteractionPing:
		writeJSON(w, http.StatusOK, domain.InteractionResponse{Type: domain.ResponsePong})
	case domain.InteractionApplicationCommand:
		h.handleCommand(w, r, &in)
	case domain.InteractionMessageComponent:
		h.handleComponent(w, &in)
	case domain.InteractionModalSubmit:
		h.handleModalSubmit(w, r, &in)
	default:
		ephemeral(w, "Unsupported interaction.")
	}
}

func (h *InteractionHandler) handleCommand(w http.ResponseWriter, r *http.Request, in *domain.Interaction) {
	if in.Data == nil || in.Member == nil {
		writeError(w, http.StatusBadRequest, "missing interaction data or member")
		return
	}
	switch in.Data.Name {
	case "verify":
		h.handleVerify(w, r, in)
	case "setup":
		h.handleSetup(w, in)
	case "verify_modal":
		writeJSON(w, http.StatusOK, verifyModal())
	default:
		ephemeral(w, "Unknown command.")
	}
}

func (h *InteractionHandler) handleVerify(w http.ResponseWriter, r *http.Request, in *domain.Interaction) {
	c, err := h.svc.IssueCode(r.Context(), in.Member.User.ID)
	if err != nil {
		ephemeral(w, "❌ Could not start verification. Please try again later.")
		return
	}
	content := fmt.Sprintf("🔐 **Verification Process**\n\n"+
		"Your verification code is: **%s**\n\n"+
		"Click the button below to enter your code and complete verification.", c)
	writeJSON(w, http.StatusOK, domain.InteractionResponse{
		Type: domain.ResponseChannelMessage,
		Data: &domain.ResponseData{
			Content:    content,
			Flags:      domain.FlagEphemeral,
			Components: []domain.ActionRow{verifyButtonRow("Enter Verification Code")},
		},
	})
}

func (h *InteractionHandler) handleSetup(w http.ResponseWriter, in *domain.Interaction) {
	if !in.Member.HasAdministrator() {
		ephemeral(w, "You need administrator permissions to use this command.")
		return
	}
	content := "🔐 **Server Verification**\n\n" +
		"To gain access to this server, you need to verify your account.\n\n" +
		"**How to verify:**\n" +
		"1. Use the `/verify` command\n" +
		"2. You'll receive a verification code\n" +
		"3. Enter the code when prompted\n" +
		"4. Get your verified role automatically!\n\n" +
		"Need help? Contact server staff."
	writeJSON(w, http.StatusOK, domain.InteractionResponse{
		Type: domain.ResponseChannelMessage,
		Data: &domain.ResponseData{
			Content:    content,
			Components: []domain.ActionRow{verifyButtonRow("Start Verification")},
		},
	})
}

func (h *InteractionHandler) handleComponent(w http.ResponseWriter, in *domain.Interaction) {
	if in.Data != nil && in.Data.CustomID == customIDOpenVerifyModal {
		writeJSON(w, http.StatusOK, verifyModal())
		return
	}
	ephemeral(w, "Unknown component.")
}

type codeSubmission struct {
	Code string `validate:"required,len=6,numeric"`
}

func (h *InteractionHandler) handleModalSubmit(w http.ResponseWriter, r *http.Request, in *domain.Interaction) {
	if in.Data == nil || in.Member == nil {
		writeError(w, http.StatusBadRequest, "missing interaction data or member")
		return
	}
	if in.Data.CustomID != customIDVerifyModal {
		ephemeral(w, "Unknown modal submission.")
		return
	}

	submitted := strings.TrimSpace(modalValue(in.Data.Components, customIDCodeInput))
	if err := validate.Struct(codeSubmission{Code: submitted}); err != nil {
		ephemeral(w, msgInvalidCode)
		return
	}

	err := h.svc.SubmitCode(r.Context(), in.Member.User.ID, in.Member.User.Username, submitted)
	switch {
	case errors.Is(err, domain.ErrInvalidOrExpiredCode):
		ephemeral(w, msgInvalidCode)
	case errors.Is(err, domain.ErrCodeOwnershipMismatch):
		ephemeral(w, "❌ This verification code was not generated for your account.")
	case errors.Is(err, domain.ErrGrantFailed):
		ephemeral(w, "❌ Could not assign the verified role. Your code is still valid — try again, or contact an administrator.")
	case err != nil:
		ephemeral(w, "❌ Failed to complete verification. Please contact an administrator for help.")
	default:
		ephemeral(w, "✅ **Verification Successful!**\n\nYou now have access to all channels in the server. Welcome! 🎉")
	}
}

const msgInvalidCode = "❌ Invalid or expired verification code. Please run `/verify` again to get a new code."

// modalValue extracts the value of the text input with the given custom_id
// from the submitted modal rows.
func modalValue(rows []domain.ActionRow, customID string) string {
	for _, row := range rows {
		for _, comp := range row.Components {
			if comp.CustomID == customID {
				return comp.Value
			}
		}
	}
	return ""
}

func verifyButtonRow(label string) domain.ActionRow {
	return domain.ActionRow{
		Type: domain.ComponentActionRow,
		Components: []domain.Component{{
			Type:     domain.ComponentButton,
			Label:    label,
			Style:    domain.ButtonPrimary,
			CustomID: customIDOpenVerifyModal,
		}},
	}
}

func verifyModal() domain.InteractionResponse {
	return domain.InteractionResponse{
		Type: domain.ResponseModal,
		Data: &domain.ResponseData{
			CustomID: customIDVerifyModal,
			Title:    "Account Verification",
			Components: []domain.ActionRow{{
				Type: domain.ComponentActionRow,
				Components: []domain.Component{{
					Type:        domain.ComponentTextInput,
					CustomID:    customIDCodeInput,
					Label:       "Verification Code",
					Style:       domain.TextInputShort,
					MinLength:   6,
					MaxLength:   6,
					Placeholder: "Enter the 6-digit code sent to you",
					Required:    true,
				}},
			}},
		},
	}
}
