package handlers

import (
	"errors"
	"net/http"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/labstack/echo/v4"
)

type sendMessageRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func SendMessage(chatService ChatService) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := Actor(c)

		request := &sendMessageRequest{}
		if err := c.Bind(request); err != nil {
			return err
		}

		targetUserID := model.IdentityID(request.UserID)
		if targetUserID == "" {
			targetUserID = actor.ID
		}

		message, err := chatService.Send(actor, targetUserID, request.Message)
		if err != nil {
			if errors.Is(err, model.ErrorForbidden) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success":     true,
			"message_id":  message.ID,
			"message":     message.Body,
			"sender_role": message.SenderRole,
		})
	}
}

func ListMessages(chatService ChatService) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := Actor(c)

		messages, err := chatService.Thread(actor, model.IdentityID(c.Param("userID")))
		if err != nil {
			if errors.Is(err, model.ErrorForbidden) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			return err
		}

		return c.JSON(http.StatusOK, map[string]any{"messages": messages})
	}
}
