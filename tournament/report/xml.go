package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"
)

type xmlResults struct {
	XMLName       xml.Name      `xml:"results"`
	Title         string        `xml:"title"`
	Penalty       string        `xml:"penalty"`
	Statistics    string        `xml:"statistics"`
	Robocup2flash string        `xml:"robocup2flash"`
	Scoreboard    xmlScoreboard `xml:"scoreboard"`
	Matches       []xmlMatch    `xml:"matches>match"`
}

type xmlScoreboard struct {
	Show   string     `xml:"show,attr"`
	Scores []xmlScore `xml:"score"`
}

type xmlTeam struct {
	Name    string `xml:"teamname"`
	Country string `xml:"country"`
	Dir     string `xml:"dir"`
}

type xmlScore struct {
	Team           xmlTeam `xml:"team"`
	Matches        int     `xml:"matches"`
	Points         int     `xml:"points"`
	Won            int     `xml:"won"`
	Drawn          int     `xml:"drawn"`
	Lost           int     `xml:"lost"`
	GoalsScored    int     `xml:"goals_scored"`
	GoalsReceived  int     `xml:"goals_received"`
	AvgGoalDiff    string  `xml:"avg_goal_diff"`
	AvgGoalsScored string  `xml:"avg_goals_scored"`
}

type xmlSide struct {
	Team         xmlTeam `xml:"team"`
	Score        int     `xml:"score"`
	PenaltyTaken int     `xml:"penalty_taken"`
	PenaltyScore int     `xml:"penalty_score"`
	Output       string  `xml:"output"`
	Error        string  `xml:"error"`
	Exception    string  `xml:"exception"`
}

type xmlServer struct {
	Rcg        string `xml:"rcg"`
	Rcl        string `xml:"rcl"`
	Swf        string `xml:"swf"`
	Output     string `xml:"output"`
	Error      string `xml:"error"`
	Statistics string `xml:"statistics"`
}

type xmlMatch struct {
	Time    string    `xml:"time"`
	Penalty string    `xml:"penalty"`
	TeamL   xmlSide   `xml:"team_l"`
	TeamR   xmlSide   `xml:"team_r"`
	Server  xmlServer `xml:"server"`
}

// WriteXML writes the results document with its stylesheet processing instruction
func WriteXML(w io.Writer, s *standings.Standings, opts Options) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("error writing xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if opts.StylesheetURL != "" {
		var href bytes.Buffer
		if err := xml.EscapeText(&href, []byte(opts.StylesheetURL)); err != nil {
			return fmt.Errorf("error escaping stylesheet url: %w", err)
		}
		inst := fmt.Sprintf(`type="text/xsl" href="%s"`, href.String())
		if err := enc.EncodeToken(xml.ProcInst{Target: "xml-stylesheet", Inst: []byte(inst)}); err != nil {
			return fmt.Errorf("error writing stylesheet instruction: %w", err)
		}
	}

	if err := enc.Encode(buildXML(s, opts)); err != nil {
		return fmt.Errorf("error encoding results xml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("error writing results xml: %w", err)
	}
	return nil
}

func buildXML(s *standings.Standings, opts Options) xmlResults {
	doc := xmlResults{
		Title:         opts.Title,
		Penalty:       yesNo(s.Penalty()),
		Statistics:    yesNo(s.Statistics()),
		Robocup2flash: yesNo(s.Robocup2flash()),
		Scoreboard:    xmlScoreboard{Show: yesNo(s.Scoreboard())},
	}

	for _, team := range s.Teams {
		doc.Scoreboard.Scores = append(doc.Scoreboard.Scores, xmlScore{
			Team:           teamXML(team),
			Matches:        team.Matches(),
			Points:         team.Points(),
			Won:            team.Won,
			Drawn:          team.Drawn,
			Lost:           team.Lost,
			GoalsScored:    team.GoalsScored,
			GoalsReceived:  team.GoalsReceived,
			AvgGoalDiff:    formatAvg(team.AvgGoalDiff()),
			AvgGoalsScored: formatAvg(team.AvgGoalsScored()),
		})
	}

	for _, m := range s.Matches {
		doc.Matches = append(doc.Matches, xmlMatch{
			Time:    m.Outcome.Time.Format("2006-01-02 15:04"),
			Penalty: yesNo(m.Penalty()),
			TeamL:   sideXML(m, shared.Left),
			TeamR:   sideXML(m, shared.Right),
			Server: xmlServer{
				Rcg:        m.GameLog(opts.GameLogExt),
				Rcl:        m.TextLog(opts.TextLogExt),
				Swf:        m.Flash(),
				Output:     m.OutputLog("server"),
				Error:      m.ErrorLog("server"),
				Statistics: m.StatisticsFile(),
			},
		})
	}
	return doc
}

func teamXML(team *standings.Team) xmlTeam {
	return xmlTeam{Name: team.Name, Country: team.Country, Dir: team.TeamDir}
}

func sideXML(m standings.MatchResult, side shared.Side) xmlSide {
	name := "team_" + string(side)
	return xmlSide{
		Team:         teamXML(m.Team(side)),
		Score:        m.Outcome.Score(side),
		PenaltyTaken: m.Outcome.PenaltyTaken(side),
		PenaltyScore: m.Outcome.PenaltyScore(side),
		Output:       m.OutputLog(name),
		Error:        m.ErrorLog(name),
		Exception:    yesNo(m.Exception(side)),
	}
}
