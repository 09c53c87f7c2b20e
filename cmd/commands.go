package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"imob-followup/internal/models"
	"imob-followup/internal/services"
	"imob-followup/internal/utils"
)

// withDashboard opens the runtime and requires an authenticated session.
func withDashboard(ctx context.Context, fn func(rt *appRuntime) error) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	state, err := rt.app.Gate.Evaluate(ctx)
	if err != nil {
		return err
	}
	switch state {
	case services.GateWizard:
		return fmt.Errorf("serviço não configurado, execute 'imob setup'")
	case services.GateLogin:
		return fmt.Errorf("sessão não autenticada, execute 'imob login'")
	}
	return fn(rt)
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("falha ao ler entrada: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("falha ao ler entrada: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Salva o token de acesso do servidor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				var err error
				if token, err = readSecret("Token de acesso: "); err != nil {
					return err
				}
			}
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			state, err := rt.app.Gate.Login(cmd.Context(), token)
			if err != nil {
				return err
			}
			if state != services.GateDashboard {
				return fmt.Errorf("token recusado pelo servidor")
			}
			fmt.Printf("Login realizado. %d contatos carregados.\n", len(rt.app.Dashboard.Contacts()))
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token de acesso (solicitado se omitido)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove o token salvo",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			if err := rt.app.Gate.Logout(); err != nil {
				return err
			}
			fmt.Println("Sessão encerrada.")
			return nil
		},
	}
}

func setupCmd() *cobra.Command {
	settings := models.DefaultAppSettings()
	var tone, mode string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configuração inicial do serviço remoto",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.MessageTone = models.MessageTone(tone)
			settings.IntegrationMode = models.IntegrationMode(mode)

			password, err := readSecret("Senha de administrador: ")
			if err != nil {
				return err
			}

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if settings.IntegrationMode == models.IntegrationServer && settings.ServerURL == "" {
				settings.ServerURL = rt.app.Gateway.Session().ServerURL
			}
			if _, err := rt.app.Gate.Setup(cmd.Context(), settings, password); err != nil {
				return err
			}
			fmt.Printf("Configuração concluída para %s.\n", settings.AgentName)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&settings.AgentName, "agent", "", "nome do corretor")
	f.StringVar(&tone, "tone", string(models.ToneFriendly), "tom das mensagens (Formal, Casual, Persuasivo, Amigável)")
	f.StringVar(&mode, "mode", string(models.IntegrationServer), "modo de integração (browser, server)")
	f.StringVar(&settings.ServerURL, "whatsapp-server", "", "URL do servidor WhatsApp (modo server)")
	f.IntVar(&settings.DefaultFrequencyOwner, "freq-owner", settings.DefaultFrequencyOwner, "cadência padrão de proprietários (dias)")
	f.IntVar(&settings.DefaultFrequencyBuilder, "freq-builder", settings.DefaultFrequencyBuilder, "cadência padrão de construtoras (dias)")
	f.IntVar(&settings.DefaultFrequencyClient, "freq-client", settings.DefaultFrequencyClient, "cadência padrão de clientes (dias)")
	_ = cmd.MarkFlagRequired("agent")
	return cmd
}

func serverURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server-url <url>",
		Short: "Define a URL do serviço remoto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			state, err := rt.app.Gate.SetServerURL(cmd.Context(), args[0])
			if err != nil && state == services.GateLoading {
				utils.LogWarning("URL salva, mas o servidor não respondeu: %v", err)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Servidor definido. Estado da sessão: %s\n", state)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Mostra o estado da sessão e da conexão do WhatsApp",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			session := rt.app.Gateway.Session()
			fmt.Printf("Servidor:  %s\n", session.ServerURL)

			state, err := rt.app.Gate.Evaluate(cmd.Context())
			if err != nil {
				fmt.Printf("Sessão:    indisponível (%v)\n", err)
				return nil
			}
			fmt.Printf("Sessão:    %s\n", state)

			status, err := rt.app.Gateway.PollConnectionStatus(cmd.Context())
			switch {
			case err != nil:
				fmt.Printf("WhatsApp:  indisponível (%v)\n", err)
			case status.IsReady:
				fmt.Println("WhatsApp:  conectado")
			default:
				fmt.Printf("WhatsApp:  desconectado (%s)\n", status.Status)
			}
			return nil
		},
	}
}

func pairCmd() *cobra.Command {
	var output string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pareia o WhatsApp do servidor via QR Code",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			connected := make(chan struct{})
			lastQR := ""
			rt.app.Pairing.OnChange(func(s services.PairingSnapshot) {
				if s.State != services.PairingQRReady || s.QRCode == lastQR {
					return
				}
				lastQR = s.QRCode
				path, err := saveQRCode(s.QRCode, output)
				if err != nil {
					utils.LogError("Erro ao salvar QR Code: %v", err)
					return
				}
				fmt.Printf("QR Code salvo em %s. Escaneie em WhatsApp > Aparelhos conectados.\n", path)
			})
			rt.app.Pairing.OnConnected(func() { close(connected) })

			snap := rt.app.Pairing.Open(cmd.Context())
			defer rt.app.Pairing.Close()
			if snap.State == services.PairingError {
				return fmt.Errorf("não foi possível obter o QR Code: %s", snap.Error)
			}

			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			deadline := time.After(timeout)
			for {
				select {
				case <-connected:
					fmt.Println("WhatsApp conectado com sucesso!")
					return nil
				case <-deadline:
					return fmt.Errorf("tempo esgotado aguardando o pareamento")
				case <-ticker.C:
					if s := rt.app.Pairing.Snapshot(); s.State == services.PairingError {
						return fmt.Errorf("pareamento falhou: %s", s.Error)
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&output, "output", "qrcode", "arquivo de saída do QR Code (sem extensão)")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "tempo máximo de espera")
	return cmd
}

func saveQRCode(payload, base string) (string, error) {
	mimeType, raw, err := utils.DecodeDataURL(payload)
	if err != nil {
		return "", err
	}
	path := base + "." + utils.GetExtensionFromMime(mimeType)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Gerencia contatos",
	}
	cmd.AddCommand(contactsListCmd(false))
	cmd.AddCommand(contactsListCmd(true))
	cmd.AddCommand(contactsAddCmd())
	cmd.AddCommand(contactsImportCmd())
	cmd.AddCommand(contactsDeleteCmd())
	return cmd
}

func printContacts(contacts []models.Contact, today time.Time) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOME\tTIPO\tTELEFONE\tÚLTIMO CONTATO\tETAPA\t")
	for _, c := range contacts {
		last := c.LastContactDate
		if d, err := utils.ParseDate(c.LastContactDate); err == nil {
			last = fmt.Sprintf("%s (há %s dias)", c.LastContactDate, humanize.Comma(int64(utils.DaysBetween(d, today))))
		}
		flag := ""
		if c.HasUnreadReply {
			flag = " *"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%s\t%s\t\n", c.ID[:min(8, len(c.ID))], c.Name, flag, c.Type, c.Phone, last, c.AutomationStage)
	}
	w.Flush()
	fmt.Printf("\n%s contato(s)\n", humanize.Comma(int64(len(contacts))))
}

func contactsListCmd(dueOnly bool) *cobra.Command {
	use, short := "list", "Lista os contatos"
	if dueOnly {
		use, short = "due", "Lista os contatos com follow-up pendente"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDashboard(cmd.Context(), func(rt *appRuntime) error {
				today := time.Now()
				contacts := rt.app.Dashboard.Contacts()
				if dueOnly {
					contacts = rt.app.Dashboard.Due(today)
				}
				printContacts(contacts, today)
				return nil
			})
		},
	}
}

func contactsAddCmd() *cobra.Command {
	var req models.CreateContactRequest
	var contactType string
	var frequency int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Adiciona um contato",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type = models.ContactType(contactType)
			if cmd.Flags().Changed("frequency") {
				req.FollowUpFrequencyDays = &frequency
			}
			return withDashboard(cmd.Context(), func(rt *appRuntime) error {
				c, err := rt.app.Dashboard.Create(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Printf("Contato %s criado (%s, a cada %d dias).\n", c.ID, c.Phone, c.FollowUpFrequencyDays)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "nome")
	f.StringVar(&req.Phone, "phone", "", "telefone")
	f.StringVar(&contactType, "type", string(models.ContactTypeClient), "tipo (Owner, Builder, Client)")
	f.StringVar(&req.Notes, "notes", "", "observações")
	f.IntVar(&frequency, "frequency", 0, "cadência em dias (padrão pelo tipo)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func contactsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <arquivo>",
		Short: "Importa contatos de um arquivo com linhas nome;telefone;tipo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rows := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
			return withDashboard(cmd.Context(), func(rt *appRuntime) error {
				result, err := rt.app.Dashboard.Import(cmd.Context(), rows)
				if err != nil {
					return err
				}
				for _, issue := range result.Errors {
					fmt.Printf("Linha %d ignorada: %s\n", issue.Line, issue.Reason)
				}
				fmt.Printf("%s contato(s) importado(s).\n", humanize.Comma(int64(len(result.Imported))))
				return nil
			})
		},
	}
}

func contactsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove um contato",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDashboard(cmd.Context(), func(rt *appRuntime) error {
				id, err := resolveID(rt, args[0])
				if err != nil {
					return err
				}
				if err := rt.app.Dashboard.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Println("Contato removido.")
				return nil
			})
		},
	}
}

// resolveID accepts a full id or the unique prefix shown by "contacts list".
func resolveID(rt *appRuntime, prefix string) (string, error) {
	var matches []string
	for _, c := range rt.app.Dashboard.Contacts() {
		if c.ID == prefix {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, prefix) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", models.NewAppError(models.ErrContactNotFound, 0, fmt.Sprintf("contato %s não encontrado", prefix), nil)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("prefixo %s ambíguo (%d contatos)", prefix, len(matches))
}

func draftCmd() *cobra.Command {
	var nudge bool
	cmd := &cobra.Command{
		Use:   "draft <id>",
		Short: "Gera um rascunho de mensagem para o contato",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDashboard(cmd.Context(), func(rt *appRuntime) error {
				id, err := resolveID(rt, args[0])
				if err != nil {
					return err
				}
				draft, err := rt.app.Dashboard.Draft(cmd.Context(), id, nudge)
				if err != nil {
					return err
				}
				fmt.Println(draft.Text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&nudge, "nudge", false, "lembrete para quem não respondeu")
	return cmd
}

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <id> <mensagem...>",
		Short: "Envia uma mensagem ao contato",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDashboard(cmd.Context(), func(rt *appRuntime) error {
				id, err := resolveID(rt, args[0])
				if err != nil {
					return err
				}
				result, err := rt.app.Dashboard.Send(cmd.Context(), id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if result.Link != "" {
					fmt.Printf("Abra para enviar: %s\n", result.Link)
					return nil
				}
				fmt.Printf("Mensagem enviada para %s.\n", result.Contact.Name)
				return nil
			})
		},
	}
}
