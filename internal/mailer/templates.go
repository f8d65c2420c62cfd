package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// Шаблоны писем. Ключи контекста соответствуют таблице событий:
// каждый шаблон использует ровно те ключи, которые для него формирует
// селектор контента.
const (
	activationTemplate = `<html>
<body>
<p>Welcome!</p>
<p>Please confirm your email address to activate your account:</p>
<p><a href="{{index . "complete_url"}}">{{index . "complete_url"}}</a></p>
<p>The link is valid until {{(index . "expires_at").Format "2006-01-02 15:04"}} UTC.</p>
<p>If the link does not work, open {{index . "url"}} and enter the code manually.</p>
</body>
</html>`

	statusActivateTemplate = `<html>
<body>
<p>Hello {{index . "email"}},</p>
<p>Your account has been {{index . "message"}} by {{index . "status_changed_user"}}.</p>
<p>You can sign in at <a href="{{index . "url"}}">{{index . "url"}}</a>.</p>
</body>
</html>`

	statusDeactivateTemplate = `<html>
<body>
<p>Hello {{index . "email"}},</p>
<p>Your account has been {{index . "message"}} by {{index . "status_changed_user"}}.</p>
<p>If you believe this is a mistake, contact your administrator at <a href="{{index . "url"}}">{{index . "url"}}</a>.</p>
</body>
</html>`

	accountDeletedTemplate = `<html>
<body>
<p>Hello {{index . "email"}},</p>
<p>Your account has been {{index . "message"}} by {{index . "deleted_by"}}.</p>
</body>
</html>`

	commentMentionTemplate = `<html>
<body>
<p>Hello {{index . "mentioned_user"}},</p>
<p>{{index . "commented_by"}} mentioned you in a comment:</p>
<blockquote>{{index . "comment_description"}}</blockquote>
<p><a href="{{index . "url"}}">{{index . "url"}}</a></p>
</body>
</html>`

	passwordResetTemplate = `<html>
<body>
<p>Hello {{index . "user_email"}},</p>
<p>To set a new password, follow the link below:</p>
<p><a href="{{index . "complete_url"}}">{{index . "complete_url"}}</a></p>
<p>If you did not request a password reset, you can ignore this email.</p>
</body>
</html>`
)

// templateSources сопоставляет идентификаторы шаблонов с их исходным текстом
var templateSources = map[string]string{
	"activation-email":  activationTemplate,
	"status-activate":   statusActivateTemplate,
	"status-deactivate": statusDeactivateTemplate,
	"account-deleted":   accountDeletedTemplate,
	"comment-mention":   commentMentionTemplate,
	"password-reset":    passwordResetTemplate,
}

// Renderer рендерит HTML тела писем по идентификатору шаблона
type Renderer struct {
	templates *template.Template
}

// NewRenderer создает Renderer со всеми шаблонами писем.
// Паникует при невалидном шаблоне: это ошибка программиста, не рантайма.
func NewRenderer() *Renderer {
	root := template.New("email")
	for id, src := range templateSources {
		template.Must(root.New(id).Parse(src))
	}
	return &Renderer{templates: root}
}

// Render рендерит шаблон с указанным контекстом
func (r *Renderer) Render(templateID string, context map[string]any) (string, error) {
	if r.templates.Lookup(templateID) == nil {
		return "", fmt.Errorf("unknown email template: %s", templateID)
	}

	var sb strings.Builder
	if err := r.templates.ExecuteTemplate(&sb, templateID, context); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateID, err)
	}

	return sb.String(), nil
}
