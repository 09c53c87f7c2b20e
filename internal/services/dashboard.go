package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"imob-followup/internal/automation"
	"imob-followup/internal/models"
	"imob-followup/internal/utils"
	"imob-followup/internal/wsnotify"
)

// Notifier receives dashboard events. *wsnotify.WebSocketManager implements it.
type Notifier interface {
	Notify(eventType string, payload interface{})
	Toast(level, message, contactID string)
}

// ContactArchiver stores a copy of every list that was saved remotely.
type ContactArchiver interface {
	Archive(ctx context.Context, contacts []models.Contact) error
}

// Dashboard owns the session's contact list. Every mutation builds the next
// full list, saves it through the gateway and only then replaces the local
// copy, so a failed save leaves the list as it was.
type Dashboard struct {
	mutex    sync.Mutex
	revision uint64
	repo     models.ContactRepository
	gateway  *SyncGateway
	contacts *ContactService
	drafting *DraftingService
	poller   *Poller
	notifier Notifier
	backup   ContactArchiver
	now      func() time.Time

	stateMutex     sync.RWMutex
	settings       models.SettingsState
	status         models.ConnectionStatus
	statusInterval time.Duration
}

func NewDashboard(
	repo models.ContactRepository,
	gateway *SyncGateway,
	contacts *ContactService,
	drafting *DraftingService,
	poller *Poller,
	notifier Notifier,
	statusInterval time.Duration,
) *Dashboard {
	return &Dashboard{
		repo:           repo,
		gateway:        gateway,
		contacts:       contacts,
		drafting:       drafting,
		poller:         poller,
		notifier:       notifier,
		now:            time.Now,
		settings:       models.Unconfigured(),
		statusInterval: statusInterval,
	}
}

func (d *Dashboard) SetBackup(b ContactArchiver) { d.backup = b }

func (d *Dashboard) SetClock(now func() time.Time) { d.now = now }

func (d *Dashboard) Settings() models.SettingsState {
	d.stateMutex.RLock()
	defer d.stateMutex.RUnlock()
	return d.settings
}

func (d *Dashboard) SetSettings(state models.SettingsState) {
	d.stateMutex.Lock()
	defer d.stateMutex.Unlock()
	d.settings = state
}

func (d *Dashboard) ConnectionStatus() models.ConnectionStatus {
	d.stateMutex.RLock()
	defer d.stateMutex.RUnlock()
	return d.status
}

// Load is the dashboard entry: it keeps the settings and fetches the list.
func (d *Dashboard) Load(ctx context.Context, settings models.AppSettings) error {
	d.SetSettings(models.Configured(settings))
	return d.Refresh(ctx)
}

// Unload drops the session state after logout.
func (d *Dashboard) Unload() {
	d.Deactivate()
	d.SetSettings(models.Unconfigured())
	d.mutex.Lock()
	d.revision++
	d.repo.ReplaceAll(nil)
	d.mutex.Unlock()
}

// Refresh replaces the local list with the remote one. A list fetched while
// a local change was committed is stale and gets dropped.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mutex.Lock()
	revision := d.revision
	d.mutex.Unlock()

	list, err := d.gateway.FetchContacts(ctx)
	if err != nil {
		return err
	}

	d.mutex.Lock()
	if d.revision != revision {
		d.mutex.Unlock()
		utils.LogDebug("Lista remota descartada: alteração local durante a busca")
		return nil
	}
	d.revision++
	d.repo.ReplaceAll(list)
	d.mutex.Unlock()
	d.notifier.Notify(wsnotify.EventContacts, list)
	return nil
}

func (d *Dashboard) Contacts() []models.Contact {
	return d.repo.GetAll()
}

func (d *Dashboard) Contact(id string) (models.Contact, error) {
	c, ok := d.repo.GetByID(id)
	if !ok {
		return models.Contact{}, models.NewAppError(models.ErrContactNotFound, 0, fmt.Sprintf("contato %s não encontrado", id), nil)
	}
	return c, nil
}

// Due lists contacts whose follow-up is due on the given day, most overdue first.
func (d *Dashboard) Due(today time.Time) []models.Contact {
	return DueContacts(d.repo.GetAll(), today)
}

func (d *Dashboard) today() time.Time {
	return d.now()
}

// mutate computes the next list from the current one and commits it.
func (d *Dashboard) mutate(ctx context.Context, change func(current []models.Contact) ([]models.Contact, error)) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	next, err := change(d.repo.GetAll())
	if err != nil {
		return err
	}
	if err := d.gateway.PersistContacts(ctx, next); err != nil {
		return err
	}
	d.revision++
	d.repo.ReplaceAll(next)
	d.notifier.Notify(wsnotify.EventContacts, next)

	if d.backup != nil {
		if err := d.backup.Archive(ctx, next); err != nil {
			utils.LogWarning("Backup dos contatos falhou: %v", err)
		}
	}
	return nil
}

func replaceContact(list []models.Contact, id string, fn func(models.Contact) (models.Contact, error)) ([]models.Contact, models.Contact, error) {
	for i, c := range list {
		if c.ID != id {
			continue
		}
		updated, err := fn(c)
		if err != nil {
			return nil, c, err
		}
		next := append([]models.Contact(nil), list...)
		next[i] = updated
		return next, updated, nil
	}
	return nil, models.Contact{}, models.NewAppError(models.ErrContactNotFound, 0, fmt.Sprintf("contato %s não encontrado", id), nil)
}

func (d *Dashboard) Create(ctx context.Context, req models.CreateContactRequest) (models.Contact, error) {
	var created models.Contact
	err := d.mutate(ctx, func(current []models.Contact) ([]models.Contact, error) {
		c, err := d.contacts.CreateContact(req, d.Settings(), d.today())
		if err != nil {
			return nil, err
		}
		created = c
		return append(current, c), nil
	})
	if err != nil {
		return models.Contact{}, err
	}
	utils.LogInfo("Contato %s criado (%s)", created.ID, created.Name)
	return created, nil
}

func (d *Dashboard) Update(ctx context.Context, id string, patch models.UpdateContactRequest) (models.Contact, error) {
	var updated models.Contact
	err := d.mutate(ctx, func(current []models.Contact) ([]models.Contact, error) {
		next, c, err := replaceContact(current, id, func(existing models.Contact) (models.Contact, error) {
			return d.contacts.UpdateContact(existing, patch)
		})
		updated = c
		return next, err
	})
	if err != nil {
		return models.Contact{}, err
	}
	return updated, nil
}

// Import adds the valid rows in one save. Rejected rows are reported in the
// result; when no row is valid nothing is saved.
func (d *Dashboard) Import(ctx context.Context, rows []string) (models.ImportResult, error) {
	result := d.contacts.ImportRows(rows, d.Settings(), d.today())
	if len(result.Imported) == 0 {
		return result, nil
	}
	err := d.mutate(ctx, func(current []models.Contact) ([]models.Contact, error) {
		return append(current, result.Imported...), nil
	})
	if err != nil {
		return models.ImportResult{Errors: result.Errors}, err
	}
	utils.LogInfo("%d contatos importados, %d linhas rejeitadas", len(result.Imported), len(result.Errors))
	return result, nil
}

func (d *Dashboard) Delete(ctx context.Context, id string) error {
	return d.mutate(ctx, func(current []models.Contact) ([]models.Contact, error) {
		next := make([]models.Contact, 0, len(current))
		for _, c := range current {
			if c.ID != id {
				next = append(next, c)
			}
		}
		if len(next) == len(current) {
			return nil, models.NewAppError(models.ErrContactNotFound, 0, fmt.Sprintf("contato %s não encontrado", id), nil)
		}
		return next, nil
	})
}

// ApplyEvent moves the contact through the automation stages.
func (d *Dashboard) ApplyEvent(ctx context.Context, id string, event automation.Event) (models.Contact, error) {
	var updated models.Contact
	err := d.mutate(ctx, func(current []models.Contact) ([]models.Contact, error) {
		next, c, err := replaceContact(current, id, func(existing models.Contact) (models.Contact, error) {
			c, err := automation.Advance(existing, event)
			if err != nil {
				return existing, fmt.Errorf("%w: %w", models.ErrInvalidContact, err)
			}
			return c, nil
		})
		updated = c
		return next, err
	})
	if err != nil {
		return models.Contact{}, err
	}
	if event.Kind == automation.EventReplyReceived {
		d.notifier.Toast(wsnotify.ToastInfo, fmt.Sprintf("%s respondeu", updated.Name), updated.ID)
	}
	return updated, nil
}

func (d *Dashboard) MarkViewed(ctx context.Context, id string) (models.Contact, error) {
	return d.ApplyEvent(ctx, id, automation.ReplyRead())
}

// Send dispatches a message to the contact. In browser mode the result
// carries a click-to-chat link instead of a remote dispatch. A failed send
// leaves the contact untouched and is reported as an error toast.
func (d *Dashboard) Send(ctx context.Context, id, message string) (models.SendResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.SendResult{}, models.NewAppError(models.ErrInvalidMessage, 0, "mensagem vazia", nil)
	}
	settings, ok := d.Settings().Get()
	if !ok {
		return models.SendResult{}, models.NewAppError(models.ErrNotConfigured, 0, "configurações não carregadas", nil)
	}
	contact, err := d.Contact(id)
	if err != nil {
		return models.SendResult{}, err
	}

	var link string
	if settings.IntegrationMode == models.IntegrationBrowser {
		link = utils.WhatsAppLink(contact.Phone, message)
	} else if err := d.gateway.SendMessage(ctx, contact.Phone, message); err != nil {
		d.notifier.Toast(wsnotify.ToastError, fmt.Sprintf("Erro ao enviar mensagem para %s", contact.Name), contact.ID)
		return models.SendResult{Contact: contact}, err
	}

	updated, err := d.ApplyEvent(ctx, id, automation.ManualSend(d.today()))
	if err != nil {
		// the message already left; only the bookkeeping save failed
		utils.LogError("Mensagem enviada mas contato %s não foi atualizado: %v", id, err)
		if errors.Is(err, models.ErrNetwork) || errors.Is(err, models.ErrUnauthorized) {
			d.notifier.Toast(wsnotify.ToastError, "Mensagem enviada, mas não foi possível salvar o contato", contact.ID)
		}
		return models.SendResult{Contact: contact, Link: link}, err
	}
	if link == "" {
		d.notifier.Toast(wsnotify.ToastSuccess, fmt.Sprintf("Mensagem enviada para %s", contact.Name), contact.ID)
	}
	return models.SendResult{Contact: updated, Link: link}, nil
}

func (d *Dashboard) Draft(ctx context.Context, id string, isNudge bool) (Draft, error) {
	contact, err := d.Contact(id)
	if err != nil {
		return Draft{}, err
	}
	return d.drafting.Draft(ctx, contact, d.Settings(), isNudge), nil
}

// Activate starts the periodic status and contact refresh. Calling it again
// replaces the running poll.
func (d *Dashboard) Activate() {
	d.PollOnce(context.Background())
	d.poller.Start(PurposeConnectionStatus, d.statusInterval, func() {
		d.PollOnce(context.Background())
	})
}

func (d *Dashboard) Deactivate() {
	d.poller.Stop(PurposeConnectionStatus)
}

// PollOnce refreshes the connection status and the contact list.
func (d *Dashboard) PollOnce(ctx context.Context) {
	status, err := d.gateway.PollConnectionStatus(ctx)
	if err != nil {
		utils.LogDebug("Status indisponível: %v", err)
		status = models.ConnectionStatus{IsReady: false, Status: "offline"}
	}

	d.stateMutex.Lock()
	changed := d.status != status
	d.status = status
	d.stateMutex.Unlock()
	if changed {
		d.notifier.Notify(wsnotify.EventConnectionStatus, status)
	}

	if err := d.Refresh(ctx); err != nil {
		utils.LogDebug("Atualização de contatos falhou: %v", err)
	}
}
