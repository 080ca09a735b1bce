// Package email delivers transactional mail for authkit.
//
// EmailSender is the transport. PostmarkClient sends through Postmark's API
// and DevSender writes every message to a directory as an .html body next
// to a .json metadata file, which is enough to click verification links
// during local development.
//
// Notifier adapts an EmailSender to auth.Notifier. It looks up the templ
// component registered for the notification's template name, renders it
// with the notification variables and sends the result:
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//		return err
//	}
//	notifier := email.NewNotifier(sender, email.WithNotifierLogger(log))
//	svc := auth.NewService(users, hasher, issuer, notifier)
//
// The verification email template ships in the templates subpackage and is
// registered by default.
package email
