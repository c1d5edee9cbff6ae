package handler

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/cpu"

	"github.com/PouyaEvan/topic-limiter/internal/messages"
	"github.com/PouyaEvan/topic-limiter/internal/metrics"
	"github.com/PouyaEvan/topic-limiter/internal/utils"
)

func (h *Handler) handleHelp(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}
	return messages.MsgHelp
}

func (h *Handler) handlePing(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	var cpuPct float64
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPct = percents[0]
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.started).Round(time.Second)
	return fmt.Sprintf(messages.MsgPing, uptime, cpuPct, m.Sys/1024/1024)
}

func (h *Handler) handleStatus(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	records, err := h.svc.ActiveRecords(ctx, req.chatID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if len(records) == 0 {
		return messages.MsgStatusEmpty
	}

	ids := make([]int64, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString(messages.MsgStatusHeader)
	for _, id := range ids {
		age := utils.FormatHoursMinutes(time.Since(records[id]))
		b.WriteString(fmt.Sprintf(messages.MsgStatusLine, strconv.FormatInt(id, 10), age))
	}
	b.WriteString(fmt.Sprintf(messages.MsgStatusFooter, len(ids)))
	return b.String()
}

func (h *Handler) handleCheckDuplicates(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	dupes, err := h.svc.DuplicateSendersToday(ctx)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if len(dupes) == 0 {
		return messages.MsgDuplicatesEmpty
	}

	ids := make([]int64, 0, len(dupes))
	for id := range dupes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString(messages.MsgDuplicatesHeader)
	for _, id := range ids {
		b.WriteString(fmt.Sprintf(messages.MsgDuplicatesLine, id, joinChatIDs(dupes[id])))
	}
	return b.String()
}

func (h *Handler) handleReset(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	userID, ok := parseUserID(req.args)
	if !ok {
		return messages.MsgUsageReset
	}

	removed, err := h.svc.ResetUser(ctx, req.chatID, userID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if !removed {
		return fmt.Sprintf(messages.MsgResetNotFound, userID)
	}
	metrics.IncBotAction("reset")
	return fmt.Sprintf(messages.MsgResetDone, userID)
}

// Custom admin management is reserved for real chat admins so a
// custom admin cannot appoint further ones.
func (h *Handler) handleAddAdmin(ctx context.Context, req commandRequest) string {
	isAdmin, err := h.svc.IsRealAdminOrOwner(ctx, req.chatID, req.userID)
	if err != nil {
		h.logger.Error("Failed to check real-time admin status", "error", err)
		return messages.MsgOwnerGateFail
	}
	if !isAdmin {
		h.logger.Info("Non-admin user tried to manage custom admins", "user_id", req.userID)
		return messages.MsgOwnerGateFail
	}

	userID, ok := parseUserID(req.args)
	if !ok {
		return messages.MsgUsageAddAdmin
	}

	added, err := h.svc.AddCustomAdmin(ctx, req.chatID, userID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if !added {
		return fmt.Sprintf(messages.MsgAdminExists, userID)
	}
	metrics.IncBotAction("add_admin")
	return fmt.Sprintf(messages.MsgAdminAdded, userID)
}

func (h *Handler) handleRemoveAdmin(ctx context.Context, req commandRequest) string {
	isAdmin, err := h.svc.IsRealAdminOrOwner(ctx, req.chatID, req.userID)
	if err != nil {
		h.logger.Error("Failed to check real-time admin status", "error", err)
		return messages.MsgOwnerGateFail
	}
	if !isAdmin {
		h.logger.Info("Non-admin user tried to manage custom admins", "user_id", req.userID)
		return messages.MsgOwnerGateFail
	}

	userID, ok := parseUserID(req.args)
	if !ok {
		return messages.MsgUsageRemoveAdmin
	}

	removed, err := h.svc.RemoveCustomAdmin(ctx, req.chatID, userID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if !removed {
		return fmt.Sprintf(messages.MsgAdminMissing, userID)
	}
	metrics.IncBotAction("remove_admin")
	return fmt.Sprintf(messages.MsgAdminRemoved, userID)
}

func (h *Handler) handleListAdmins(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	admins, err := h.svc.ListCustomAdmins(ctx, req.chatID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if len(admins) == 0 {
		return messages.MsgAdminsEmpty
	}

	var b strings.Builder
	b.WriteString(messages.MsgAdminsHeader)
	for _, id := range admins {
		b.WriteString(fmt.Sprintf(messages.MsgAdminsLine, id))
	}
	return b.String()
}

func (h *Handler) handleSetCooldown(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	if len(req.args) < 2 {
		return messages.MsgUsageSetCooldown
	}
	userID, err := strconv.ParseInt(req.args[0], 10, 64)
	if err != nil {
		return messages.MsgUsageSetCooldown
	}
	hours, err := strconv.Atoi(req.args[1])
	if err != nil {
		return messages.MsgUsageSetCooldown
	}
	if hours < 0 {
		return messages.MsgUsageNegativeHours
	}

	if err := h.svc.SetCooldown(ctx, req.chatID, userID, hours); err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	metrics.IncBotAction("set_cooldown")
	if hours == 0 {
		return fmt.Sprintf(messages.MsgCooldownUnlimited, userID)
	}
	return fmt.Sprintf(messages.MsgCooldownSet, userID, hours)
}

func (h *Handler) handleResetCooldown(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	userID, ok := parseUserID(req.args)
	if !ok {
		return messages.MsgUsageResetCooldown
	}

	removed, err := h.svc.RemoveCooldown(ctx, req.chatID, userID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if !removed {
		return fmt.Sprintf(messages.MsgCooldownMissing, userID)
	}
	metrics.IncBotAction("reset_cooldown")
	return fmt.Sprintf(messages.MsgCooldownRemoved, userID)
}

func (h *Handler) handleListCooldowns(ctx context.Context, req commandRequest) string {
	if !h.svc.IsExempt(ctx, req.chatID, req.userID, req.senderChatID) {
		return messages.MsgAdminsOnly
	}

	overrides, err := h.svc.ListCooldowns(ctx, req.chatID)
	if err != nil {
		return fmt.Sprintf(messages.MsgCommandFailed, err)
	}
	if len(overrides) == 0 {
		return messages.MsgCooldownsEmpty
	}

	ids := make([]int64, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var b strings.Builder
	b.WriteString(messages.MsgCooldownsHeader)
	for _, id := range ids {
		b.WriteString(fmt.Sprintf(messages.MsgCooldownsLine, id, overrides[id]))
	}
	return b.String()
}

func parseUserID(args []string) (int64, bool) {
	if len(args) < 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func joinChatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
