package render

// fragmentTemplates holds one named template per fragment. Each renders the
// inner content of its container.
const fragmentTemplates = `
{{define "empty"}}<p class="placeholder">{{.}}</p>{{end}}

{{define "failure"}}<p class="placeholder placeholder-error">{{.}}</p>{{end}}

{{define "levels"}}<div class="data-grid">
  <div class="data-item"><span class="data-label">Users</span><span class="data-value">{{count .Users}}</span></div>
  <div class="data-item"><span class="data-label">Total XP</span><span class="data-value">{{comma .TotalXP}}</span></div>
  <div class="data-item"><span class="data-label">Messages</span><span class="data-value">{{comma .TotalMessages}}</span></div>
</div>
{{- if .Top}}
<ol class="leaderboard">
{{- range .Top}}
  <li><span class="user-id">{{.UserID}}</span> <span class="user-level">Lv. {{comma .Level}}</span> <span class="user-xp">{{comma .XP}} XP</span></li>
{{- end}}
</ol>
{{- end}}{{end}}

{{define "daily"}}<div class="data-grid">
  <div class="data-item"><span class="data-label">Users</span><span class="data-value">{{count .Users}}</span></div>
  <div class="data-item"><span class="data-label">Check-ins</span><span class="data-value">{{comma .TotalCheckins}}</span></div>
  <div class="data-item"><span class="data-label">Points</span><span class="data-value">{{comma .TotalPoints}}</span></div>
</div>{{end}}

{{define "birthdays"}}<div class="data-grid">
  <div class="data-item"><span class="data-label">Registered</span><span class="data-value">{{count .Total}}</span></div>
  <div class="data-item"><span class="data-label">This month ({{.Month}})</span><span class="data-value">{{count .ThisMonth}}</span></div>
</div>{{end}}

{{define "game_stats"}}<div class="data-grid">
  <div class="data-item"><span class="data-label">Players</span><span class="data-value">{{count .Players}}</span></div>
  <div class="data-item"><span class="data-label">Games played</span><span class="data-value">{{comma .TotalGames}}</span></div>
  <div class="data-item"><span class="data-label">Wins</span><span class="data-value">{{comma .TotalWins}}</span></div>
  <div class="data-item"><span class="data-label">Win rate</span><span class="data-value">{{percent .WinRate}}</span></div>
</div>
{{- if .Games}}
<table class="game-breakdown">
  <thead><tr><th>Game</th><th>Played</th><th>Won</th><th>Win rate</th></tr></thead>
  <tbody>
  {{- range .Games}}
    <tr><td>{{.Name}}</td><td>{{comma .Played}}</td><td>{{comma .Won}}</td><td>{{percent .WinRate}}</td></tr>
  {{- end}}
  </tbody>
</table>
{{- end}}{{end}}

{{define "statistics"}}<div class="data-grid">
  <div class="data-item"><span class="data-label">Total messages</span><span class="data-value">{{comma .TotalMessages}}</span></div>
  <div class="data-item"><span class="data-label">Today</span><span class="data-value">{{comma .Today}}</span></div>
  <div class="data-item"><span class="data-label">Top channel</span><span class="data-value">{{if .HasTopChannel}}{{channel .TopChannel}}{{else}}N/A{{end}}</span></div>
  <div class="data-item"><span class="data-label">Peak hour</span><span class="data-value">{{if .HasPeakHour}}{{hour .PeakHour}}{{else}}N/A{{end}}</span></div>
  <div class="data-item"><span class="data-label">Active users</span><span class="data-value">{{count .ActiveUsers}}</span></div>
</div>{{end}}

{{define "toggle"}}<label class="switch{{if .Pending}} switch-pending{{end}}">
  <input type="checkbox" data-feature="{{.Feature}}"{{if .Enabled}} checked{{end}}{{if .Pending}} disabled{{end}}>
  <span class="slider"></span>
</label>{{end}}

{{define "welcome"}}<div class="feature-list">
{{- range .}}
  <div class="feature" data-feature="{{.Feature}}">
    <div class="feature-header">
      <span class="feature-name">{{.Label}}</span>
      <span id="{{.ToggleID}}">{{template "toggle" .Toggle}}</span>
    </div>
    <div class="feature-channel">{{if .Channel}}Channel: {{channel .Channel}}{{else}}No channel set{{end}}</div>
    {{- if .Message}}
    <div class="feature-message">{{.Message}}</div>
    {{- end}}
  </div>
{{- end}}
</div>{{end}}

{{define "stats"}}<span class="stat-value">{{count .MemberCount}}</span>
<span class="stat-detail">{{count .ChannelCount}} channels · {{count .TextChannels}} text · {{count .RoleCount}} roles</span>{{end}}

{{define "guilds"}}
{{- range .}}
<a class="guild-card" href="/dashboard/{{.ID}}">
  {{- if .IconURL}}<img class="guild-icon" src="{{.IconURL}}" alt="">{{else}}<div class="guild-icon guild-icon-fallback">{{initial .Name}}</div>{{end}}
  <div class="guild-name">{{.Name}}</div>
  <div class="guild-members">{{count .MemberCount}} members</div>
</a>
{{- end}}{{end}}
`
