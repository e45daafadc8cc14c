package auth_test

import (
	"strings"
	"testing"

	"github.com/gongxings/ai-creator/auth"
	"github.com/gongxings/ai-creator/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateUsername(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateUsername("writer_01"))
	require.NoError(t, v.ValidateUsername("创作者"))
	require.Error(t, v.ValidateUsername("ab"))
	require.Error(t, v.ValidateUsername(strings.Repeat("a", 51)))
	require.Error(t, v.ValidateUsername("bad-name"))
	require.Error(t, v.ValidateUsername("has space"))
}

func TestValidator_ValidateEmail(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateEmail("test@example.com"))
	require.Error(t, v.ValidateEmail(""))
	require.Error(t, v.ValidateEmail("no-at-sign"))
	require.Error(t, v.ValidateEmail("user@localhost"))
	require.Error(t, v.ValidateEmail("Name <user@example.com>"))
}

func TestValidator_ValidateRegistration(t *testing.T) {
	v := auth.NewValidator()

	t.Run("valid", func(t *testing.T) {
		err := v.ValidateRegistration(auth.RegisterRequest{
			Username:        "testuser",
			Email:           "test@example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
			Nickname:        utils.Ptr("测试用户"),
		})
		require.NoError(t, err)
	})

	t.Run("every field wrong", func(t *testing.T) {
		err := v.ValidateRegistration(auth.RegisterRequest{
			Username:        "x",
			Email:           "nope",
			Password:        "123",
			ConfirmPassword: "1234",
		})
		var verrs auth.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 4)
		require.Contains(t, verrs.Field("password"), "6 to 50")
		require.Equal(t, auth.ErrPasswordsDontMatch.Error(), verrs.Field("confirm_password"))
	})
}

func TestValidator_ValidatePasswordChange(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidatePasswordChange(auth.PasswordChange{OldPassword: "old-pass", NewPassword: "new-pass"}, "new-pass"))

	err := v.ValidatePasswordChange(auth.PasswordChange{OldPassword: "same-pass", NewPassword: "same-pass"}, "same-pass")
	var verrs auth.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, auth.ErrSamePassword.Error(), verrs.Field("new_password"))

	err = v.ValidatePasswordChange(auth.PasswordChange{NewPassword: "new-pass"}, "other")
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
}

func TestValidator_ValidateProfileUpdate(t *testing.T) {
	v := auth.NewValidator()

	require.ErrorIs(t, v.ValidateProfileUpdate(auth.ProfileUpdate{}), auth.ErrNothingToUpdate)
	require.NoError(t, v.ValidateProfileUpdate(auth.ProfileUpdate{Phone: utils.Ptr("13800138000")}))
	require.Error(t, v.ValidateProfileUpdate(auth.ProfileUpdate{Avatar: utils.Ptr(strings.Repeat("a", 256))}))
}
