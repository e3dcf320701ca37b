package handlers

import (
	"errors"
	"net/http"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/labstack/echo/v4"
)

func AdminDashboard(adminService AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		dashboard, err := adminService.Dashboard()
		if err != nil {
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, dashboard)
		}
		return c.Render(http.StatusOK, "dashboard.html", dashboard)
	}
}

func AdminUsers(adminService AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := adminService.Users()
		if err != nil {
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, users)
		}
		return c.Render(http.StatusOK, "users.html", map[string]any{"Users": users})
	}
}

func AdminUserDetail(adminService AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		detail, err := adminService.User(model.IdentityID(c.Param("userID")))
		if err != nil {
			if errors.Is(err, model.ErrorNotFound) {
				return c.Redirect(http.StatusFound, "/admin/users")
			}
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, detail)
		}
		return c.Render(http.StatusOK, "user_detail.html", detail)
	}
}

func AdminChats(adminService AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		threads, err := adminService.Threads()
		if err != nil {
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, threads)
		}
		return c.Render(http.StatusOK, "chats.html", map[string]any{"Threads": threads})
	}
}
