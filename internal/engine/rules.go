package engine

import "github.com/roach88/hwdiag/internal/ir"

// Rule IDs of the default table, in declaration order.
const (
	RuleNoPower        = "no-power"
	RuleOverheatReboot = "overheat-reboot"
	RuleDiskBottleneck = "disk-bottleneck"
	RuleLowMemory      = "low-memory"
	RuleNoVideo        = "no-video"
	RuleNoise          = "noise"
)

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() []ir.Rule {
	return []ir.Rule{
		{
			ID:             RuleNoPower,
			Symptoms:       []ir.Symptom{"nao_liga"},
			Diagnosis:      "Computador não liga",
			Cause:          "Possível problema na fonte de alimentação, cabo de energia ou botão power.",
			Recommendation: "Verifique se o cabo está conectado, teste em outra tomada, confira a chave de tensão da fonte e, se possível, teste com outra fonte.",
		},
		{
			ID:             RuleOverheatReboot,
			Symptoms:       []ir.Symptom{"reinicia_sozinho", "superaquecendo"},
			Diagnosis:      "Reinicializações devido a superaquecimento",
			Cause:          "Temperatura alta de CPU ou GPU causando desligamento de segurança.",
			Recommendation: "Limpe ventoinhas e dissipadores, verifique se os coolers estão girando, troque a pasta térmica se necessário e garanta boa circulação de ar no gabinete.",
		},
		{
			ID:             RuleDiskBottleneck,
			Symptoms:       []ir.Symptom{"lento", "uso_disco_alto"},
			Diagnosis:      "Desempenho lento por gargalo em disco",
			Cause:          "Disco rígido antigo, quase cheio ou com muitos acessos simultâneos.",
			Recommendation: "Considere usar um SSD, liberar espaço em disco, desinstalar programas desnecessários e verificar programas iniciando junto com o sistema.",
		},
		{
			ID:             RuleLowMemory,
			Symptoms:       []ir.Symptom{"lento", "pouca_memoria"},
			Diagnosis:      "Desempenho lento por falta de memória RAM",
			Cause:          "Aplicativos consumindo mais RAM do que o disponível.",
			Recommendation: "Feche programas em segundo plano, aumente a quantidade de RAM ou use versões mais leves dos aplicativos.",
		},
		{
			ID:             RuleNoVideo,
			Symptoms:       []ir.Symptom{"sem_video"},
			Diagnosis:      "Sem vídeo na tela",
			Cause:          "Problemas na placa de vídeo, cabo de vídeo ou monitor.",
			Recommendation: "Teste com outro cabo/monitor, verifique se a placa de vídeo está bem encaixada, e teste a saída de vídeo onboard (se houver).",
		},
		{
			ID:             RuleNoise,
			Symptoms:       []ir.Symptom{"ruidos"},
			Diagnosis:      "Ruídos estranhos (cliques/chiados)",
			Cause:          "Possível falha em HD mecânico ou ventoinhas desgastadas.",
			Recommendation: "Faça backup imediato dos dados, verifique a origem do ruído e considere trocar o componente.",
		},
	}
}

// DefaultFallback is returned alone when no rule matches.
func DefaultFallback() ir.DiagnosisResult {
	return ir.DiagnosisResult{
		Diagnosis:      "Nenhuma causa específica identificada",
		Cause:          "Os sintomas informados não bateram com nenhuma regra específica do sistema especialista.",
		Recommendation: "Verifique se os sintomas foram descritos corretamente, atualize drivers e sistema operacional, e se o problema persistir, considere uma análise mais detalhada por um técnico.",
	}
}
