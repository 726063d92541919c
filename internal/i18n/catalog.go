package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Each has an English and an Indonesian variant.
const (
	NotificationsTitle = "notifications_title"
	NoNotifications    = "no_notifications"
	UnreadMarker       = "unread_marker"
	UnreadBadge        = "unread_badge"
	MarkAllRead        = "mark_all_read"
	ClearAll           = "clear_all"

	TimeJustNow = "time_just_now"
	TimeMinutes = "time_minutes"
	TimeHours   = "time_hours"
	TimeDays    = "time_days"

	ModalCompany           = "modal_company"
	ModalLocation          = "modal_location"
	ModalSalary            = "modal_salary"
	ModalAvailableSlots    = "modal_available_slots"
	ModalCurrentApplicants = "modal_current_applicants"
	ModalQualifications    = "modal_qualifications"
	ModalJobDescription    = "modal_job_description"
	ModalApplyNow          = "modal_apply_now"
	ModalLoginToApply      = "modal_login_to_apply"
	ModalJobClosed         = "modal_job_closed"
	ModalSlotsFull         = "modal_slots_full"

	SalaryMin          = "salary_min"
	SalaryMax          = "salary_max"
	SalaryNotAvailable = "salary_na"

	JobDeleted     = "job_deleted"
	JobRemoved     = "job_removed"
	JobLoadError   = "job_load_error"
	ClearConfirm   = "clear_confirm"
	ClearDone      = "clear_done"
	ClearFailed    = "clear_failed"
	SessionExpired = "session_expired"
	Navigated      = "navigated"
	NavigatedNoCB  = "navigated_no_clipboard"
	LanguageSet    = "language_set"
	ThemeSet       = "theme_set"
	LoadFailed     = "load_failed"

	JobFillFields        = "job_fill_fields"
	JobDescriptionShort  = "job_description_short"
	JobConfirm           = "job_confirm"
	ApplicationSubmitted = "application_submitted"
	ApplicationFailed    = "application_failed"

	Loading            = "loading"
	HelpTitle          = "help_title"
	CommandTitle       = "command_title"
	CommandPlaceholder = "command_placeholder"
	ApplyTitle         = "apply_title"
	CoverLetterLabel   = "cover_letter_label"
	CVLabel            = "cv_label"
	CharCount          = "char_count"
	SyncIdle           = "sync_idle"
	SyncRunning        = "sync_running"
	SyncOffline        = "sync_offline"
	HintsList          = "hints_list"
	HintsModal         = "hints_modal"
	HintsForm          = "hints_form"
	HintsOverlay       = "hints_overlay"
)

var translations = map[string][2]string{
	NotificationsTitle: {"Notifications", "Notifikasi"},
	NoNotifications:    {"No notifications", "Tidak ada notifikasi"},
	UnreadMarker:       {"New", "Baru"},
	UnreadBadge:        {"%d unread", "%d belum dibaca"},
	MarkAllRead:        {"Mark all as read", "Tandai semua dibaca"},
	ClearAll:           {"Clear all", "Hapus semua"},

	TimeJustNow: {"Just now", "Baru saja"},
	TimeMinutes: {"%dm ago", "%d mnt lalu"},
	TimeHours:   {"%dh ago", "%d jam lalu"},
	TimeDays:    {"%dd ago", "%d hari lalu"},

	ModalCompany:           {"Company:", "Perusahaan:"},
	ModalLocation:          {"Location:", "Lokasi:"},
	ModalSalary:            {"Salary:", "Gaji:"},
	ModalAvailableSlots:    {"Available Slots:", "Kuota Tersedia:"},
	ModalCurrentApplicants: {"Current Applicants:", "Pelamar Saat Ini:"},
	ModalQualifications:    {"Qualifications", "Kualifikasi"},
	ModalJobDescription:    {"Job Description", "Deskripsi Pekerjaan"},
	ModalApplyNow:          {"Apply Now", "Lamar Sekarang"},
	ModalLoginToApply:      {"Login to Apply", "Masuk untuk Lamar"},
	ModalJobClosed:         {"Job Closed", "Lowongan Ditutup"},
	ModalSlotsFull:         {"Slots Full", "Kuota Penuh"},

	SalaryMin:          {"Min. %s", "Min. %s"},
	SalaryMax:          {"Max. %s", "Maks. %s"},
	SalaryNotAvailable: {"N/A", "T/A"},

	JobDeleted: {
		"The related job has been deleted by the company.",
		"Pekerjaan terkait telah dihapus oleh perusahaan.",
	},
	JobRemoved: {
		"The related job has been removed by the company.",
		"Job terkait sudah dihapus oleh perusahaan.",
	},
	JobLoadError: {"Error loading job details", "Gagal memuat detail pekerjaan"},
	ClearConfirm: {
		"Are you sure you want to delete ALL notifications? This cannot be undone.",
		"Apakah Anda yakin ingin menghapus SEMUA notifikasi? Tindakan ini tidak dapat dibatalkan.",
	},
	ClearDone:      {"All notifications have been cleared.", "Semua notifikasi telah dihapus."},
	ClearFailed:    {"Error clearing notifications.", "Gagal menghapus notifikasi."},
	SessionExpired: {"Session expired. Please log in again.", "Sesi berakhir. Silakan masuk kembali."},
	Navigated:      {"Open %s (copied to clipboard)", "Buka %s (disalin ke papan klip)"},
	NavigatedNoCB:  {"Open %s", "Buka %s"},
	LanguageSet:    {"Language: %s", "Bahasa: %s"},
	ThemeSet:       {"Theme: %s", "Tema: %s"},
	LoadFailed:     {"Could not refresh notifications", "Gagal memuat notifikasi"},

	JobFillFields: {
		"Please fill in all required fields.",
		"Harap isi semua bidang yang wajib diisi.",
	},
	JobDescriptionShort: {
		"Please provide a more detailed job description (at least 20 characters).",
		"Harap berikan deskripsi pekerjaan yang lebih detail (minimal 20 karakter).",
	},
	JobConfirm: {
		"Are you sure you want to post this job?",
		"Apakah Anda yakin ingin memposting pekerjaan ini?",
	},
	ApplicationSubmitted: {"Application submitted.", "Lamaran terkirim."},
	ApplicationFailed:    {"Error submitting application.", "Gagal mengirim lamaran."},

	Loading:            {"Loading...", "Memuat..."},
	HelpTitle:          {"Keyboard Shortcuts", "Pintasan Keyboard"},
	CommandTitle:       {"Command Palette", "Palet Perintah"},
	CommandPlaceholder: {"type a command...", "ketik perintah..."},
	ApplyTitle:         {"Apply: %s", "Lamar: %s"},
	CoverLetterLabel:   {"Cover Letter", "Surat Lamaran"},
	CVLabel:            {"CV file (PDF, max 10MB)", "File CV (PDF, maks 10MB)"},
	CharCount:          {"%d characters", "%d karakter"},
	SyncIdle:           {"synced", "tersinkron"},
	SyncRunning:        {"syncing", "menyinkron"},
	SyncOffline:        {"offline", "luring"},
	HintsList: {
		"q quit | ? help | enter open | m read | M read all | X clear | L lang | T theme",
		"q keluar | ? bantuan | enter buka | m baca | M baca semua | X hapus | L bahasa | T tema",
	},
	HintsModal:   {"esc close | a apply | j/k scroll | L lang", "esc tutup | a lamar | j/k gulir | L bahasa"},
	HintsForm:    {"enter submit | esc cancel", "enter kirim | esc batal"},
	HintsOverlay: {"esc back", "esc kembali"},
}

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, pair := range translations {
		if err := b.SetString(language.English, key, pair[0]); err != nil {
			panic(err)
		}
		if err := b.SetString(language.Indonesian, key, pair[1]); err != nil {
			panic(err)
		}
	}
	return b
}

// Printer returns a message printer for l backed by the catalog. Numbers
// printed with %d use the locale's digit grouping.
func Printer(l Locale) *message.Printer {
	return message.NewPrinter(l.Tag(), message.Catalog(messages))
}

// T renders the message key in locale l. Unknown keys are returned as-is.
func T(l Locale, key string, args ...interface{}) string {
	return Printer(l).Sprintf(key, args...)
}

// Has reports whether key is in the catalog.
func Has(key string) bool {
	_, ok := translations[key]
	return ok
}
