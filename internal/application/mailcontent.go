package application

import (
	"fmt"
	"time"

	"github.com/mailagent/server/internal/ports"
)

// Transactional mail bodies are rendered inline; layout lives with the
// content because the set is small and changes together.

func verificationMail(appName, to, code string, ttl time.Duration) ports.OutboundMail {
	minutes := int(ttl.Minutes())
	return ports.OutboundMail{
		To:      to,
		Subject: fmt.Sprintf("%s verification code", appName),
		HTMLBody: fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:auto">
<h2>Verify your email</h2>
<p>Use this code to verify your %s account:</p>
<p style="font-size:32px;letter-spacing:8px;font-weight:bold">%s</p>
<p>The code expires in %d minutes. If you did not create an account, ignore this message.</p>
</div>`, appName, code, minutes),
		TextBody: fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", appName, code, minutes),
	}
}

func welcomeMail(appName, to, name, clientURL string) ports.OutboundMail {
	return ports.OutboundMail{
		To:      to,
		Subject: fmt.Sprintf("Welcome to %s", appName),
		HTMLBody: fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:auto">
<h2>Welcome, %s!</h2>
<p>Your email is verified and your %s account is ready.</p>
<p><a href="%s">Open %s</a></p>
</div>`, name, appName, clientURL, appName),
		TextBody: fmt.Sprintf("Welcome, %s! Your %s account is ready: %s", name, appName, clientURL),
	}
}

func passwordResetMail(appName, to, resetLink string, ttl time.Duration) ports.OutboundMail {
	minutes := int(ttl.Minutes())
	return ports.OutboundMail{
		To:      to,
		Subject: fmt.Sprintf("Reset your %s password", appName),
		HTMLBody: fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:auto">
<h2>Password reset</h2>
<p>A password reset was requested for your %s account.</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#fff;text-decoration:none;border-radius:6px">Reset password</a></p>
<p>The link expires in %d minutes. If you did not request this, ignore this message; your password is unchanged.</p>
</div>`, appName, resetLink, minutes),
		TextBody: fmt.Sprintf("Reset your %s password: %s (expires in %d minutes)", appName, resetLink, minutes),
	}
}

func purposeCodeMail(appName, to, code, headline, warning string, ttl time.Duration) ports.OutboundMail {
	minutes := int(ttl.Minutes())
	return ports.OutboundMail{
		To:      to,
		Subject: fmt.Sprintf("%s confirmation code", appName),
		HTMLBody: fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:auto">
<h2>%s</h2>
<p style="font-size:32px;letter-spacing:8px;font-weight:bold">%s</p>
<p>The code expires in %d minutes.</p>
<p>%s</p>
</div>`, headline, code, minutes, warning),
		TextBody: fmt.Sprintf("%s: %s (expires in %d minutes). %s", headline, code, minutes, warning),
	}
}

func passwordChangedMail(appName, to string) ports.OutboundMail {
	return ports.OutboundMail{
		To:      to,
		Subject: fmt.Sprintf("Your %s password was changed", appName),
		HTMLBody: fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:auto">
<h2>Password changed</h2>
<p>The password on your %s account was just changed. If this was not you, reset your password immediately.</p>
</div>`, appName),
		TextBody: fmt.Sprintf("The password on your %s account was just changed. If this was not you, reset it immediately.", appName),
	}
}
